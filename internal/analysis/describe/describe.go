package describe

import (
	"sort"

	"github.com/montanaflynn/stats"

	"datalens/domain/dataset"
)

// Numeric computes descriptive statistics over a cleaned numeric array.
// The standard deviation is the population formula (divide by n). An empty
// array yields a zero-valued record; NaN never reaches the report.
func Numeric(values []float64) *dataset.NumericStats {
	record := &dataset.NumericStats{}
	if len(values) == 0 {
		return record
	}

	sum, _ := stats.Sum(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	std, _ := stats.StdDevP(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	record.Count = len(values)
	record.Sum = sum
	record.Mean = mean
	record.Median = median
	record.Mode = mode(values)
	record.Std = std
	record.Min = min
	record.Max = max
	return record
}

// mode returns the most frequent value. Ties break deterministically to the
// value that reached the maximum count first in input order.
func mode(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// Distribution builds the frequency distribution of a categorical column.
// Entries are sorted by count descending; ties keep first-seen order so the
// output is deterministic for "top N" consumers.
func Distribution(labels []string) []dataset.ValueCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, seen := counts[label]; !seen {
			firstSeen[label] = order
			order++
		}
		counts[label]++
	}

	out := make([]dataset.ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, dataset.ValueCount{Value: value, Count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})
	return out
}
