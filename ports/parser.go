package ports

import (
	"datalens/domain/dataset"
)

// FileParser turns a stored upload into the tabular shape the analysis
// engine consumes. Implementations must trim header and cell whitespace and
// guarantee every row carries the header's column set.
type FileParser interface {
	Parse(path string) (*dataset.Dataset, error)
}
