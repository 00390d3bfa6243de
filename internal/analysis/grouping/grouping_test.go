package grouping

import (
	"testing"

	"datalens/internal/classify"
)

func classifyColumn(name string, raw []string) *classify.Column {
	return classify.New(classify.DefaultConfig()).Classify(name, raw)
}

func TestAggregate_SumsPerGroup(t *testing.T) {
	key := classifyColumn("Category", []string{"A", "B", "A", "C", "A"})
	measure := classifyColumn("Sales", []string{"10", "20", "5", "5", "20"})

	g := Aggregate(key, measure, 0)
	if g == nil {
		t.Fatal("Expected a grouping")
	}
	if g.Key != "Category" || g.Measure != "Sales" {
		t.Errorf("Key/Measure = %s/%s", g.Key, g.Measure)
	}

	totals := make(map[string]float64)
	for _, gt := range g.Totals {
		totals[gt.Key] = gt.Total
	}
	if totals["A"] != 35 || totals["B"] != 20 || totals["C"] != 5 {
		t.Errorf("Totals = %v, want A=35 B=20 C=5", totals)
	}

	if g.HighPerformers[0].Key != "A" {
		t.Errorf("Top performer = %s, want A", g.HighPerformers[0].Key)
	}
	if g.LowPerformers[0].Key != "C" {
		t.Errorf("Bottom performer = %s, want C", g.LowPerformers[0].Key)
	}
}

func TestAggregate_SkipsEmptyKeys(t *testing.T) {
	key := classifyColumn("Region", []string{"N", "", "S"})
	measure := classifyColumn("Amount", []string{"1", "2", "3"})

	g := Aggregate(key, measure, 0)
	if len(g.Totals) != 2 {
		t.Fatalf("Empty-key rows must be skipped, got %d groups", len(g.Totals))
	}
}

func TestAggregate_InvalidMeasureContributesZero(t *testing.T) {
	key := classifyColumn("Region", []string{"N", "N", "S"})
	measure := classifyColumn("Amount", []string{"10", "bad", "3"})

	g := Aggregate(key, measure, 0)
	totals := make(map[string]float64)
	for _, gt := range g.Totals {
		totals[gt.Key] = gt.Total
	}
	// The group still exists; the unparseable cell just adds nothing.
	if totals["N"] != 10 {
		t.Errorf("N total = %f, want 10", totals["N"])
	}
}

func TestAggregate_RankSizeTruncates(t *testing.T) {
	key := classifyColumn("K", []string{"a", "b", "c", "d", "e", "f", "g"})
	measure := classifyColumn("V", []string{"7", "6", "5", "4", "3", "2", "1"})

	g := Aggregate(key, measure, 0)
	if len(g.HighPerformers) != DefaultRankSize || len(g.LowPerformers) != DefaultRankSize {
		t.Errorf("Default rank size should cap performers at %d, got %d/%d",
			DefaultRankSize, len(g.HighPerformers), len(g.LowPerformers))
	}

	g = Aggregate(key, measure, 2)
	if len(g.HighPerformers) != 2 {
		t.Errorf("Explicit rank size 2 gave %d high performers", len(g.HighPerformers))
	}
	if g.HighPerformers[0].Key != "a" || g.HighPerformers[1].Key != "b" {
		t.Errorf("High performers = %v", g.HighPerformers)
	}
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	key := classifyColumn("K", []string{"late", "early"})
	measure := classifyColumn("V", []string{"5", "5"})

	g := Aggregate(key, measure, 0)
	if g.HighPerformers[0].Key != "late" {
		t.Errorf("Tied totals must keep first-seen order, got %s first", g.HighPerformers[0].Key)
	}
}

func TestAggregate_NilInputs(t *testing.T) {
	measure := classifyColumn("V", []string{"1"})
	if g := Aggregate(nil, measure, 0); g != nil {
		t.Error("Nil key column should yield nil grouping")
	}
	key := classifyColumn("K", []string{"a"})
	if g := Aggregate(key, nil, 0); g != nil {
		t.Error("Nil measure column should yield nil grouping")
	}
}

func TestDetectRoles_HintPriority(t *testing.T) {
	columns := []*classify.Column{
		classifyColumn("OrderDate", []string{"2024-01-01", "2024-01-02"}),
		classifyColumn("Region", []string{"N", "S"}),
		classifyColumn("Category", []string{"a", "b"}),
		classifyColumn("Quantity", []string{"1", "2"}),
		classifyColumn("Sales", []string{"10", "20"}),
	}

	roles := DetectRoles(columns)
	// "category" outranks "region" in the hint list despite header order.
	if roles.KeyColumn != "Category" {
		t.Errorf("KeyColumn = %s, want Category", roles.KeyColumn)
	}
	// "sales" outranks "quantity".
	if roles.MeasureColumn != "Sales" {
		t.Errorf("MeasureColumn = %s, want Sales", roles.MeasureColumn)
	}
	if roles.DateColumn != "OrderDate" {
		t.Errorf("DateColumn = %s, want OrderDate", roles.DateColumn)
	}
}

func TestDetectRoles_FallsBackToFirstOfKind(t *testing.T) {
	columns := []*classify.Column{
		classifyColumn("Label", []string{"x", "y"}),
		classifyColumn("Metric", []string{"1", "2"}),
	}

	roles := DetectRoles(columns)
	if roles.KeyColumn != "Label" {
		t.Errorf("KeyColumn = %s, want Label (first categorical)", roles.KeyColumn)
	}
	if roles.MeasureColumn != "Metric" {
		t.Errorf("MeasureColumn = %s, want Metric (first numeric)", roles.MeasureColumn)
	}
	if roles.DateColumn != "" {
		t.Errorf("DateColumn = %s, want empty", roles.DateColumn)
	}
}

func TestDetectRoles_EmptyWhenNoCandidates(t *testing.T) {
	columns := []*classify.Column{
		classifyColumn("Metric", []string{"1", "2"}),
	}
	roles := DetectRoles(columns)
	if roles.KeyColumn != "" {
		t.Errorf("KeyColumn = %s, want empty with no categorical columns", roles.KeyColumn)
	}
}
