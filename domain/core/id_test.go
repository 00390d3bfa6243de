package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestNewID_TimeOrdered verifies v7 IDs sort by creation time
func TestNewID_TimeOrdered(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		if next.String() < prev.String() {
			t.Fatalf("IDs should be lexically non-decreasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestParseDomainIDs(t *testing.T) {
	if _, err := ParseUserID(""); err == nil {
		t.Error("Empty user ID should fail")
	}
	if _, err := ParseFileID("  "); err == nil {
		t.Error("Whitespace file ID should fail")
	}
	if id, err := ParseUserID("u-1"); err != nil || id.String() != "u-1" {
		t.Errorf("ParseUserID = (%s, %v)", id, err)
	}
}

func TestNewReportID(t *testing.T) {
	a, b := NewReportID(), NewReportID()
	if a.String() == "" || a == b {
		t.Errorf("Report IDs must be non-empty and unique: %s / %s", a, b)
	}
}

func TestNewSessionToken(t *testing.T) {
	a, b := NewSessionToken(), NewSessionToken()
	if a == "" || a == b {
		t.Errorf("Session tokens must be non-empty and unique: %s / %s", a, b)
	}
}
