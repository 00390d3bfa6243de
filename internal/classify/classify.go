package classify

import (
	"math"
	"strconv"
	"strings"
	"time"

	"datalens/domain/dataset"
)

// Config defines the classification thresholds
type Config struct {
	NumericThreshold  float64 // fraction of non-empty values that must parse as numbers
	DatetimeThreshold float64 // fraction of non-empty values that must parse as dates
	IdentifierUnique  float64 // uniqueness ratio above which a key-named column is tagged identifier
}

// DefaultConfig returns the documented defaults: a column is numeric when at
// least 90% of its non-empty values parse as finite numbers.
func DefaultConfig() Config {
	return Config{
		NumericThreshold:  0.9,
		DatetimeThreshold: 0.8,
		IdentifierUnique:  0.9,
	}
}

// Column is the classified, row-aligned view of one dataset column.
// Values/Valid and Times/TimeValid keep the original row positions so
// pairwise analyses can align on rows where both columns are valid.
type Column struct {
	Name      string
	Kind      dataset.ColumnKind
	Values    []float64   // numeric parse per row, meaningful where Valid
	Valid     []bool      // true where the raw value parsed as a finite number
	Times     []time.Time // date parse per row, meaningful where TimeValid
	TimeValid []bool
	Labels    []string // trimmed raw values, all rows
}

// Numbers returns just the valid numeric values in row order
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for i, v := range c.Values {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// ValidCount returns how many rows parsed as finite numbers
func (c *Column) ValidCount() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Classifier infers column kinds and normalizes raw values. It is a pure
// function over its inputs; a column with zero rows classifies as
// categorical with an empty distribution and never errors.
type Classifier struct {
	config Config
}

// New creates a classifier with the given config
func New(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify inspects a column's raw values and decides its kind.
func (c *Classifier) Classify(name string, raw []string) *Column {
	col := &Column{
		Name:      name,
		Kind:      dataset.KindCategorical,
		Values:    make([]float64, len(raw)),
		Valid:     make([]bool, len(raw)),
		Times:     make([]time.Time, len(raw)),
		TimeValid: make([]bool, len(raw)),
		Labels:    make([]string, len(raw)),
	}

	dateHinted := nameSuggestsDate(name)

	nonEmpty := 0
	numericCount := 0
	dateCount := 0
	unique := make(map[string]struct{})

	for i, value := range raw {
		trimmed := strings.TrimSpace(value)
		col.Labels[i] = trimmed
		if trimmed == "" {
			continue
		}
		nonEmpty++
		unique[trimmed] = struct{}{}

		if num, ok := ParseNumber(trimmed); ok {
			col.Values[i] = num
			col.Valid[i] = true
			numericCount++
		}
		if t, ok := ParseTime(trimmed, dateHinted); ok {
			col.Times[i] = t
			col.TimeValid[i] = true
			dateCount++
		}
	}

	if nonEmpty == 0 {
		// No valid values after cleaning: never numeric.
		return col
	}

	numericRatio := float64(numericCount) / float64(nonEmpty)
	dateRatio := float64(dateCount) / float64(nonEmpty)
	uniqueRatio := float64(len(unique)) / float64(nonEmpty)

	// Datetime wins over numeric for name-hinted columns so spreadsheet date
	// serials do not masquerade as measures.
	switch {
	case dateHinted && dateRatio >= c.config.DatetimeThreshold:
		col.Kind = dataset.KindDatetime
	case numericRatio >= c.config.NumericThreshold:
		col.Kind = dataset.KindNumeric
	case nameSuggestsIdentifier(name) && uniqueRatio >= c.config.IdentifierUnique:
		col.Kind = dataset.KindIdentifier
	default:
		col.Kind = dataset.KindCategorical
	}

	return col
}

// nameSuggestsDate applies the column name heuristic for datetime detection
func nameSuggestsDate(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "date") || strings.Contains(lower, "time")
}

// nameSuggestsIdentifier checks whether a column name looks like a unique key
func nameSuggestsIdentifier(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "id" || lower == "key" || lower == "uuid" {
		return true
	}
	return strings.HasSuffix(lower, "_id") || strings.HasSuffix(lower, " id")
}

// ParseNumber attempts to parse a raw cell as a finite number.
// Handles accounting formats: parentheses for negatives, currency symbols,
// thousands separators and percent signs.
func ParseNumber(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	cleanVal = strings.TrimSpace(cleanVal)

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// Spreadsheet date serials count days since 1900-01-00; serial 25569 is
// 1970-01-01, so the Unix timestamp is (serial-25569)*86400.
const (
	serialEpochOffset = 25569
	minDateSerial     = 1
	maxDateSerial     = 2958465 // 9999-12-31
)

// dateFormats are tried in order when parsing cell text as a calendar date
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// ParseTime attempts to parse a raw cell as a calendar date. When the column
// name hints at a date, numeric values in the plausible serial range are
// converted via the spreadsheet epoch formula.
func ParseTime(raw string, serialHint bool) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, trimmed); err == nil {
			return t, true
		}
	}

	if serialHint {
		if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
			if serial >= minDateSerial && serial <= maxDateSerial {
				unix := (serial - serialEpochOffset) * 86400
				return time.Unix(int64(unix), 0).UTC(), true
			}
		}
	}

	return time.Time{}, false
}
