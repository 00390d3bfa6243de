package excel

import (
	"os"
	"path/filepath"
	"testing"

	"datalens/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestParse_CSV(t *testing.T) {
	path := writeTempCSV(t, "Category, Sales \nA,10\nB,20\n")

	ds, err := NewDataReader().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ds.Headers) != 2 || ds.Headers[0] != "Category" || ds.Headers[1] != "Sales" {
		t.Errorf("Headers = %v, want trimmed [Category Sales]", ds.Headers)
	}
	if ds.TotalRows != 2 {
		t.Fatalf("TotalRows = %d, want 2", ds.TotalRows)
	}
	if ds.Rows[0]["Category"] != "A" || ds.Rows[0]["Sales"] != "10" {
		t.Errorf("First row = %v", ds.Rows[0])
	}
}

func TestParse_RaggedRowsPadded(t *testing.T) {
	path := writeTempCSV(t, "A,B,C\n1,2\n")

	ds, err := NewDataReader().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Rows[0]["C"] != "" {
		t.Errorf("Short rows must pad missing cells with empty strings, got %q", ds.Rows[0]["C"])
	}
	if got := ds.Column("B"); len(got) != 1 || got[0] != "2" {
		t.Errorf("Column B = %v", got)
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "A,B\n")

	ds, err := NewDataReader().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.TotalRows != 0 || len(ds.Rows) != 0 {
		t.Errorf("Header-only file should give zero rows, got %d", ds.TotalRows)
	}
}

func TestParse_MissingFile(t *testing.T) {
	_, err := NewDataReader().Parse(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("Error code = %s, want %s", errors.GetCode(err), errors.CodeNotFound)
	}
}

func TestParse_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")
	if _, err := NewDataReader().Parse(path); err == nil {
		t.Fatal("Empty file should fail with a parse error")
	}
}

func TestParse_QuotedFields(t *testing.T) {
	path := writeTempCSV(t, "Name,Amount\n\"Smith, Jane\",\"$1,200\"\n")

	ds, err := NewDataReader().Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Rows[0]["Name"] != "Smith, Jane" {
		t.Errorf("Quoted field = %q", ds.Rows[0]["Name"])
	}
	if ds.Rows[0]["Amount"] != "$1,200" {
		t.Errorf("Quoted amount = %q", ds.Rows[0]["Amount"])
	}
}
