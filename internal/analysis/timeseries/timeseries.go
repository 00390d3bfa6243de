package timeseries

import (
	"time"

	"datalens/domain/dataset"
	"datalens/internal/classify"
)

// Granularity is the bucket width of a built series
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// DefaultDailySpanDays is the observed-span cutoff between daily and monthly
// buckets: spans up to 60 days bucket daily, longer spans monthly.
const DefaultDailySpanDays = 60

// labelFormat renders a bucket boundary as the series label
func (g Granularity) labelFormat() string {
	if g == GranularityMonth {
		return "2006-01"
	}
	return "2006-01-02"
}

// Build aggregates a measure column into chronologically ordered buckets
// derived from the observed range of the date column. Buckets with no rows
// appear with value 0, so chart consumers get a gap-free series. When the
// measure is nil the series counts rows per bucket instead.
//
// Buckets come strictly from observed dates; nothing synthetic is emitted.
func Build(date, measure *classify.Column, dailySpanDays int) *dataset.TimeSeries {
	if date == nil {
		return nil
	}
	if dailySpanDays <= 0 {
		dailySpanDays = DefaultDailySpanDays
	}

	type sample struct {
		at    time.Time
		value float64
	}

	var samples []sample
	for i, ok := range date.TimeValid {
		if !ok {
			continue
		}
		value := 1.0 // count mode when no measure column
		if measure != nil {
			if i >= len(measure.Values) || !measure.Valid[i] {
				continue
			}
			value = measure.Values[i]
		}
		samples = append(samples, sample{at: date.Times[i], value: value})
	}
	if len(samples) == 0 {
		return nil
	}

	first, last := samples[0].at, samples[0].at
	for _, s := range samples[1:] {
		if s.at.Before(first) {
			first = s.at
		}
		if s.at.After(last) {
			last = s.at
		}
	}

	granularity := GranularityDay
	if last.Sub(first) > time.Duration(dailySpanDays)*24*time.Hour {
		granularity = GranularityMonth
	}

	// Sum samples into their buckets, then walk the full grid so missing
	// buckets surface with value 0.
	sums := make(map[string]float64)
	for _, s := range samples {
		sums[truncate(s.at, granularity).Format(granularity.labelFormat())] += s.value
	}

	series := &dataset.TimeSeries{BucketGranularity: string(granularity)}
	if measure != nil {
		series.Measure = measure.Name
	}
	for cursor := truncate(first, granularity); !cursor.After(last); cursor = advance(cursor, granularity) {
		label := cursor.Format(granularity.labelFormat())
		series.Data = append(series.Data, dataset.TimePoint{Time: label, Value: sums[label]})
	}
	return series
}

// truncate rounds a time down to its bucket boundary
func truncate(t time.Time, g Granularity) time.Time {
	if g == GranularityMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// advance steps to the next bucket boundary
func advance(t time.Time, g Granularity) time.Time {
	if g == GranularityMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}
