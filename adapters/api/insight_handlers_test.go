package api

import (
	"strings"
	"testing"

	"datalens/domain/dataset"
)

func sampleReport() *dataset.Report {
	report := dataset.NewReport()
	report.Columns["Sales"] = dataset.ColumnProfile{Name: "Sales", Kind: dataset.KindNumeric}
	report.Columns["Price"] = dataset.ColumnProfile{Name: "Price", Kind: dataset.KindNumeric}
	report.Columns["Category"] = dataset.ColumnProfile{Name: "Category", Kind: dataset.KindCategorical}
	report.Columns["Date"] = dataset.ColumnProfile{Name: "Date", Kind: dataset.KindDatetime}
	report.Correlations[dataset.PairKey("Sales", "Price")] = 0.85
	report.Correlations[dataset.PairKey("Sales", "Quantity")] = 0.12
	report.Correlations[dataset.PairKey("Price", "Quantity")] = -0.45
	report.Grouping = &dataset.Grouping{
		Key:     "Category",
		Measure: "Sales",
		Totals: []dataset.GroupTotal{
			{Key: "A", Total: 35},
			{Key: "B", Total: 20},
			{Key: "C", Total: 5},
		},
		HighPerformers: []dataset.GroupTotal{{Key: "A", Total: 35}},
		LowPerformers:  []dataset.GroupTotal{{Key: "C", Total: 5}},
	}
	report.Trends["Date"] = dataset.Trend{Slope: 1.5, Intercept: 2, R2: 0.9}
	return report
}

func TestBuildNarrative_FiltersWeakCorrelations(t *testing.T) {
	md := BuildNarrative("sales.csv", sampleReport())

	if !strings.Contains(md, "strongly positively correlated (r = 0.85)") {
		t.Error("Strong positive pair should be narrated")
	}
	if !strings.Contains(md, "moderately negatively correlated (r = -0.45)") {
		t.Error("Moderate negative pair should be narrated")
	}
	// |r| = 0.12 sits below the significance threshold.
	if strings.Contains(md, "0.12") {
		t.Error("Weak pair must not appear in the narrative")
	}
}

func TestBuildNarrative_Sections(t *testing.T) {
	md := BuildNarrative("sales.csv", sampleReport())

	if !strings.Contains(md, "# Analysis of sales.csv") {
		t.Error("Missing title")
	}
	if !strings.Contains(md, "2 numeric, 1 categorical or identifier, 1 date") {
		t.Errorf("Column summary wrong:\n%s", md)
	}
	if !strings.Contains(md, "## Sales by Category") {
		t.Error("Missing grouping section")
	}
	if !strings.Contains(md, "Top performer: **A**") {
		t.Error("Missing top performer line")
	}
	if !strings.Contains(md, "trends upward") {
		t.Error("Missing trend direction")
	}
}

func TestBuildNarrative_EmptyReport(t *testing.T) {
	md := BuildNarrative("empty.csv", dataset.NewReport())

	if !strings.Contains(md, "0 columns") {
		t.Errorf("Empty report should still summarize shape:\n%s", md)
	}
	if strings.Contains(md, "## Relationships") || strings.Contains(md, "## Trends") {
		t.Error("Empty report must not emit empty sections")
	}
}

func TestBuildNarrative_Warnings(t *testing.T) {
	report := dataset.NewReport()
	report.Warnings = append(report.Warnings, "statistics unavailable for numeric columns: capacity exhausted")

	md := BuildNarrative("bad.csv", report)
	if !strings.Contains(md, "> Note: statistics unavailable") {
		t.Errorf("Warnings should surface as notes:\n%s", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("# Title\n\n- **bold** item\n")
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Rendered HTML missing expected tags:\n%s", html)
	}
}
