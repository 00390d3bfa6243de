package dataset

import (
	"strings"
	"time"

	"datalens/domain/core"
)

// FileStatus represents the processing state of an uploaded file
type FileStatus string

const (
	StatusProcessing FileStatus = "processing"
	StatusReady      FileStatus = "ready"
	StatusFailed     FileStatus = "failed"
)

// Row maps a column name to the raw cell value as read from the file.
// Missing cells are absent or empty strings; typing happens in the classifier.
type Row map[string]string

// Dataset is the parsed tabular input consumed by the analysis engine.
// It is read-only once constructed: every row carries the same column set
// as Headers, and TotalRows equals len(Rows).
type Dataset struct {
	Headers   []string `json:"headers"`
	Rows      []Row    `json:"rows"`
	TotalRows int      `json:"totalRows"`
}

// NewDataset builds a dataset from headers and rows, fixing up TotalRows.
func NewDataset(headers []string, rows []Row) *Dataset {
	return &Dataset{Headers: headers, Rows: rows, TotalRows: len(rows)}
}

// Column returns the raw values of one column in row order. Rows that lack
// the column contribute an empty string, keeping positions row-aligned.
func (d *Dataset) Column(name string) []string {
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values
}

// File represents a stored upload and its processing state
type File struct {
	ID               core.FileID `json:"id" db:"id"`
	UserID           core.UserID `json:"user_id" db:"user_id"`
	OriginalFilename string      `json:"original_filename" db:"original_filename"`
	StoredPath       string      `json:"stored_path,omitempty" db:"stored_path"`
	FileSize         int64       `json:"file_size" db:"file_size"`
	MimeType         string      `json:"mime_type" db:"mime_type"`
	RowCount         int         `json:"row_count" db:"row_count"`
	ColumnCount      int         `json:"column_count" db:"column_count"`
	Status           FileStatus  `json:"status" db:"status"`
	ErrorMessage     string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// NewFile creates a file record in the processing state
func NewFile(userID core.UserID, originalFilename string) *File {
	return &File{
		ID:               core.FileID(core.NewID()),
		UserID:           userID,
		OriginalFilename: originalFilename,
		Status:           StatusProcessing,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// IsReady returns true if the file finished processing successfully
func (f *File) IsReady() bool {
	return f.Status == StatusReady
}

// PairKey builds the canonical map key for an unordered column pair.
// The lexically smaller name comes first so (A,B) and (B,A) collide.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// SplitPairKey is the inverse of PairKey.
func SplitPairKey(key string) (string, string) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}
