package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	UserID   ID
	FileID   ID
	ReportID ID
)

// String conversions for domain IDs
func (id UserID) String() string   { return ID(id).String() }
func (id FileID) String() string   { return ID(id).String() }
func (id ReportID) String() string { return ID(id).String() }

// NewReportID issues an identifier for one analysis run of a file
func NewReportID() ReportID {
	return ReportID(NewID())
}

// ParseUserID parses a string into UserID
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	return UserID(s), nil
}

// ParseFileID parses a string into FileID
func ParseFileID(s string) (FileID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("file ID cannot be empty")
	}
	return FileID(s), nil
}

// NewSessionToken issues an opaque bearer token for authenticated sessions
func NewSessionToken() string {
	return uuid.NewString()
}
