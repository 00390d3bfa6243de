package dataset

import (
	"testing"

	"datalens/domain/core"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	if PairKey("Sales", "Price") != PairKey("Price", "Sales") {
		t.Error("PairKey must be symmetric")
	}
	if got := PairKey("Sales", "Price"); got != "Price|Sales" {
		t.Errorf("PairKey = %s, want Price|Sales", got)
	}

	a, b := SplitPairKey("Price|Sales")
	if a != "Price" || b != "Sales" {
		t.Errorf("SplitPairKey = %s/%s", a, b)
	}
}

func TestDataset_Column(t *testing.T) {
	ds := NewDataset([]string{"A", "B"}, []Row{
		{"A": "1", "B": "x"},
		{"A": "2"},
	})

	if ds.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", ds.TotalRows)
	}

	got := ds.Column("B")
	if len(got) != 2 || got[0] != "x" || got[1] != "" {
		t.Errorf("Column(B) = %v, want [x \"\"] with row alignment", got)
	}
}

func TestNewFile_StartsProcessing(t *testing.T) {
	userID := core.UserID(core.NewID())
	file := NewFile(userID, "report.xlsx")

	if file.Status != StatusProcessing {
		t.Errorf("Status = %s, want %s", file.Status, StatusProcessing)
	}
	if file.IsReady() {
		t.Error("Processing file is not ready")
	}
	if file.UserID != userID || file.OriginalFilename != "report.xlsx" {
		t.Errorf("File fields wrong: %+v", file)
	}

	file.Status = StatusReady
	if !file.IsReady() {
		t.Error("Ready file should report ready")
	}
}

func TestNewReport_AllocatesCollections(t *testing.T) {
	report := NewReport()
	if report.Columns == nil || report.Correlations == nil || report.TimeSeries == nil || report.Trends == nil {
		t.Error("All report collections must be allocated")
	}
	if report.Grouping != nil {
		t.Error("Fresh report has no grouping")
	}
}

func TestReport_NumericColumns(t *testing.T) {
	report := NewReport()
	report.Columns["b"] = ColumnProfile{Name: "b", Kind: KindNumeric}
	report.Columns["a"] = ColumnProfile{Name: "a", Kind: KindCategorical}
	report.Columns["c"] = ColumnProfile{Name: "c", Kind: KindNumeric}

	got := report.NumericColumns([]string{"a", "b", "c"})
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("NumericColumns = %v, want [b c] in header order", got)
	}
}
