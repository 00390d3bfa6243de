package grouping

import (
	"sort"

	"datalens/domain/dataset"
	"datalens/internal/classify"
)

// DefaultRankSize is how many high/low performers the report surfaces
const DefaultRankSize = 5

// Aggregate groups rows by a categorical key column and sums a numeric
// measure per group. Rows with an empty key are skipped; rows whose measure
// did not parse contribute 0 to their group (deliberate: the group still
// exists, its total just ignores the bad cell).
func Aggregate(key, measure *classify.Column, rankSize int) *dataset.Grouping {
	if key == nil || measure == nil {
		return nil
	}
	if rankSize <= 0 {
		rankSize = DefaultRankSize
	}

	totals := make(map[string]float64)
	var order []string

	n := len(key.Labels)
	if len(measure.Values) < n {
		n = len(measure.Values)
	}
	for i := 0; i < n; i++ {
		label := key.Labels[i]
		if label == "" {
			continue
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		if measure.Valid[i] {
			totals[label] += measure.Values[i]
		} else {
			totals[label] += 0
		}
	}

	if len(order) == 0 {
		return nil
	}

	grouped := make([]dataset.GroupTotal, 0, len(order))
	for _, label := range order {
		grouped = append(grouped, dataset.GroupTotal{Key: label, Total: totals[label]})
	}

	// Stable sorts keep first-seen order on ties.
	high := make([]dataset.GroupTotal, len(grouped))
	copy(high, grouped)
	sort.SliceStable(high, func(i, j int) bool { return high[i].Total > high[j].Total })

	low := make([]dataset.GroupTotal, len(grouped))
	copy(low, grouped)
	sort.SliceStable(low, func(i, j int) bool { return low[i].Total < low[j].Total })

	return &dataset.Grouping{
		Key:            key.Name,
		Measure:        measure.Name,
		Totals:         high,
		HighPerformers: truncate(high, rankSize),
		LowPerformers:  truncate(low, rankSize),
	}
}

func truncate(totals []dataset.GroupTotal, n int) []dataset.GroupTotal {
	if len(totals) <= n {
		out := make([]dataset.GroupTotal, len(totals))
		copy(out, totals)
		return out
	}
	out := make([]dataset.GroupTotal, n)
	copy(out, totals[:n])
	return out
}
