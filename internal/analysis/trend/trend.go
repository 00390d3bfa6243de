package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"datalens/domain/dataset"
)

// DefaultHorizon is how many points a fitted trend projects forward
const DefaultHorizon = 6

// Fit runs ordinary least squares over a time-ordered series indexed
// 0..n-1 and projects horizon additional points past the observed range.
// R² is clamped to [0, 1] so numerical noise never surfaces as a negative
// confidence metric.
//
// Degenerate series (fewer than 2 points, hence fewer than 2 distinct x)
// fit slope 0, intercept mean(y), R² 0 and never error.
func Fit(values []float64, horizon int) dataset.Trend {
	if horizon < 0 {
		horizon = DefaultHorizon
	}

	n := len(values)
	if n < 2 {
		intercept := 0.0
		if n == 1 {
			intercept = values[0]
		}
		return dataset.Trend{
			Slope:     0,
			Intercept: intercept,
			R2:        0,
			Forecast:  project(0, intercept, n, horizon),
		}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, values, nil, false)
	r2 := stat.RSquared(xs, values, nil, intercept, slope)

	// A flat series has zero total sum of squares; the fit explains nothing.
	if math.IsNaN(r2) || math.IsInf(r2, 0) || r2 < 0 {
		r2 = 0
	} else if r2 > 1 {
		r2 = 1
	}
	if math.IsNaN(slope) || math.IsNaN(intercept) {
		slope, intercept, r2 = 0, stat.Mean(values, nil), 0
	}

	return dataset.Trend{
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
		Forecast:  project(slope, intercept, n, horizon),
	}
}

// project evaluates the fitted line at the horizon indices past the series
func project(slope, intercept float64, n, horizon int) []dataset.ForecastPoint {
	out := make([]dataset.ForecastPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		x := n + i
		out = append(out, dataset.ForecastPoint{X: x, Y: slope*float64(x) + intercept})
	}
	return out
}
