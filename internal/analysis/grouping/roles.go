package grouping

import (
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/classify"
)

// Roles names the columns an analysis should group, measure and order by.
// Empty fields mean no suitable column was found.
type Roles struct {
	KeyColumn     string
	MeasureColumn string
	DateColumn    string
}

// keyHints and measureHints drive the name-matching fallback, checked in
// order so earlier hints outrank later ones.
var (
	keyHints     = []string{"category", "product", "region", "customer", "segment", "channel", "type"}
	measureHints = []string{"sales", "revenue", "amount", "total", "price", "profit", "cost", "quantity", "value"}
)

// DetectRoles guesses the key, measure and date columns by name heuristics.
// It is a pure function and a fallback only: callers that know their columns
// pass them explicitly and skip this entirely.
//
// Priority: a hinted name wins over an unhinted one; among equally hinted
// columns, header order decides. The first datetime column is the date.
func DetectRoles(columns []*classify.Column) Roles {
	roles := Roles{}

	roles.KeyColumn = firstMatch(columns, dataset.KindCategorical, keyHints)
	roles.MeasureColumn = firstMatch(columns, dataset.KindNumeric, measureHints)

	for _, col := range columns {
		if col.Kind == dataset.KindDatetime {
			roles.DateColumn = col.Name
			break
		}
	}

	return roles
}

// firstMatch returns the first column of the wanted kind whose name contains
// a hint, scanning hints in priority order; with no hinted match it falls
// back to the first column of that kind.
func firstMatch(columns []*classify.Column, kind dataset.ColumnKind, hints []string) string {
	for _, hint := range hints {
		for _, col := range columns {
			if col.Kind != kind {
				continue
			}
			if strings.Contains(strings.ToLower(col.Name), hint) {
				return col.Name
			}
		}
	}
	for _, col := range columns {
		if col.Kind == kind {
			return col.Name
		}
	}
	return ""
}
