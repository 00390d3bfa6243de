package timeseries

import (
	"testing"

	"datalens/internal/classify"
)

func classifyColumn(name string, raw []string) *classify.Column {
	return classify.New(classify.DefaultConfig()).Classify(name, raw)
}

func TestBuild_DailyBuckets(t *testing.T) {
	date := classifyColumn("Date", []string{"2024-01-01", "2024-01-01", "2024-01-02"})
	measure := classifyColumn("Sales", []string{"5", "5", "10"})

	series := Build(date, measure, 0)
	if series == nil {
		t.Fatal("Expected a series")
	}
	if series.BucketGranularity != string(GranularityDay) {
		t.Errorf("Granularity = %s, want day", series.BucketGranularity)
	}
	if series.Measure != "Sales" {
		t.Errorf("Measure = %s, want Sales", series.Measure)
	}
	if len(series.Data) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(series.Data))
	}
	if series.Data[0].Time != "2024-01-01" || series.Data[0].Value != 10 {
		t.Errorf("First bucket = %+v, want 2024-01-01/10", series.Data[0])
	}
	if series.Data[1].Time != "2024-01-02" || series.Data[1].Value != 10 {
		t.Errorf("Second bucket = %+v, want 2024-01-02/10", series.Data[1])
	}
}

func TestBuild_GapsFilledWithZero(t *testing.T) {
	date := classifyColumn("Date", []string{"2024-01-01", "2024-01-04"})
	measure := classifyColumn("Sales", []string{"1", "4"})

	series := Build(date, measure, 0)
	if len(series.Data) != 4 {
		t.Fatalf("Expected 4 contiguous buckets, got %d", len(series.Data))
	}
	if series.Data[1].Value != 0 || series.Data[2].Value != 0 {
		t.Errorf("Missing days must appear with value 0: %+v", series.Data)
	}
	if series.Data[1].Time != "2024-01-02" || series.Data[2].Time != "2024-01-03" {
		t.Errorf("Gap labels wrong: %+v", series.Data)
	}
}

func TestBuild_MonthlyForLongSpans(t *testing.T) {
	date := classifyColumn("Date", []string{"2024-01-15", "2024-04-20"})
	measure := classifyColumn("Sales", []string{"10", "20"})

	series := Build(date, measure, 60)
	if series.BucketGranularity != string(GranularityMonth) {
		t.Fatalf("Span over 60 days should bucket monthly, got %s", series.BucketGranularity)
	}
	if len(series.Data) != 4 {
		t.Fatalf("Expected Jan through Apr, got %d buckets", len(series.Data))
	}
	if series.Data[0].Time != "2024-01" || series.Data[3].Time != "2024-04" {
		t.Errorf("Month labels wrong: first=%s last=%s", series.Data[0].Time, series.Data[3].Time)
	}
	if series.Data[1].Value != 0 || series.Data[2].Value != 0 {
		t.Errorf("Empty months must be 0: %+v", series.Data)
	}
}

func TestBuild_CountModeWithoutMeasure(t *testing.T) {
	date := classifyColumn("Date", []string{"2024-01-01", "2024-01-01", "2024-01-02"})

	series := Build(date, nil, 0)
	if series.Measure != "" {
		t.Errorf("Count mode should have no measure name, got %s", series.Measure)
	}
	if series.Data[0].Value != 2 || series.Data[1].Value != 1 {
		t.Errorf("Count mode values wrong: %+v", series.Data)
	}
}

func TestBuild_SkipsRowsWithInvalidMeasure(t *testing.T) {
	date := classifyColumn("Date", []string{"2024-01-01", "2024-01-01"})
	measure := classifyColumn("Sales", []string{"10", "bad"})

	series := Build(date, measure, 0)
	if series.Data[0].Value != 10 {
		t.Errorf("Unparseable measure rows must be skipped, got %f", series.Data[0].Value)
	}
}

func TestBuild_NoParsedDates(t *testing.T) {
	date := classifyColumn("Date", []string{"not a date", "also not"})
	if series := Build(date, nil, 0); series != nil {
		t.Errorf("No valid dates should yield nil, got %+v", series)
	}
	if series := Build(nil, nil, 0); series != nil {
		t.Error("Nil date column should yield nil")
	}
}
