package correlate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"datalens/domain/dataset"
	"datalens/internal/classify"
)

// Pairwise computes the Pearson correlation for every unordered pair of
// numeric columns, aligned on rows where both columns parsed. Pairs with
// fewer than 2 paired values or zero variance are omitted rather than
// reported as 0, since "undefined" is not "no correlation".
func Pairwise(columns []*classify.Column) map[string]float64 {
	numeric := make([]*classify.Column, 0, len(columns))
	for _, col := range columns {
		if col.Kind == dataset.KindNumeric {
			numeric = append(numeric, col)
		}
	}

	out := make(map[string]float64)
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := alignedPairs(numeric[i], numeric[j])
			if r, ok := Pearson(x, y); ok {
				out[dataset.PairKey(numeric[i].Name, numeric[j].Name)] = r
			}
		}
	}
	return out
}

// Pearson computes the product-moment correlation of two row-aligned series.
// The second return is false when the coefficient is undefined.
func Pearson(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0, false
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	// Guard against floating-point drift past the mathematical bounds.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

// alignedPairs extracts the values of both columns at rows where both parsed
func alignedPairs(a, b *classify.Column) ([]float64, []float64) {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.Valid[i] && b.Valid[i] {
			x = append(x, a.Values[i])
			y = append(y, b.Values[i])
		}
	}
	return x, y
}
