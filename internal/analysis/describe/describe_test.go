package describe

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNumeric_KnownValues(t *testing.T) {
	stats := Numeric([]float64{10, 20, 30, 40})

	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4", stats.Count)
	}
	if !almostEqual(stats.Sum, 100) {
		t.Errorf("Sum = %f, want 100", stats.Sum)
	}
	if !almostEqual(stats.Mean, 25) {
		t.Errorf("Mean = %f, want 25", stats.Mean)
	}
	if !almostEqual(stats.Median, 25) {
		t.Errorf("Median = %f, want 25", stats.Median)
	}
	if !almostEqual(stats.Min, 10) || !almostEqual(stats.Max, 40) {
		t.Errorf("Min/Max = %f/%f, want 10/40", stats.Min, stats.Max)
	}
	// Population standard deviation: sqrt(mean of squared deviations).
	if want := math.Sqrt(125); !almostEqual(stats.Std, want) {
		t.Errorf("Std = %f, want %f", stats.Std, want)
	}
}

func TestNumeric_Empty(t *testing.T) {
	stats := Numeric(nil)
	if stats == nil {
		t.Fatal("Empty input must yield a zero record, not nil")
	}
	if stats.Count != 0 || stats.Sum != 0 || stats.Mean != 0 {
		t.Errorf("Empty input should be all zeros, got %+v", stats)
	}
}

func TestNumeric_SingleValue(t *testing.T) {
	stats := Numeric([]float64{7})
	if stats.Count != 1 || stats.Mean != 7 || stats.Median != 7 || stats.Std != 0 {
		t.Errorf("Single value stats wrong: %+v", stats)
	}
}

func TestMode_TieBreaksToFirstSeen(t *testing.T) {
	// 2 and 5 both appear twice; 2 reaches its max count first.
	stats := Numeric([]float64{2, 5, 2, 5, 9})
	if stats.Mode != 2 {
		t.Errorf("Mode = %f, want 2 (first value to reach max count)", stats.Mode)
	}
}

func TestDistribution_OrderAndCounts(t *testing.T) {
	dist := Distribution([]string{"b", "a", "b", "c", "a", "b", ""})

	if len(dist) != 3 {
		t.Fatalf("Expected 3 distinct values, got %d", len(dist))
	}
	if dist[0].Value != "b" || dist[0].Count != 3 {
		t.Errorf("Top entry = %+v, want b/3", dist[0])
	}
	if dist[1].Value != "a" || dist[1].Count != 2 {
		t.Errorf("Second entry = %+v, want a/2", dist[1])
	}
	if dist[2].Value != "c" || dist[2].Count != 1 {
		t.Errorf("Third entry = %+v, want c/1", dist[2])
	}
}

func TestDistribution_TiesKeepFirstSeenOrder(t *testing.T) {
	dist := Distribution([]string{"x", "y", "y", "x"})
	if dist[0].Value != "x" || dist[1].Value != "y" {
		t.Errorf("Tied counts must keep first-seen order, got %v then %v", dist[0].Value, dist[1].Value)
	}
}

func TestDistribution_Empty(t *testing.T) {
	if dist := Distribution(nil); len(dist) != 0 {
		t.Errorf("Empty labels should give empty distribution, got %v", dist)
	}
}
