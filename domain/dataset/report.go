package dataset

// ColumnKind is the inferred type of a column. Each kind carries a different
// payload in the ColumnProfile, so consumers cannot read a mean off a
// categorical column by accident.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindDatetime    ColumnKind = "datetime"
	KindIdentifier  ColumnKind = "identifier"
)

// NumericStats holds descriptive statistics for a numeric column.
// Std is the population standard deviation (divide by n).
type NumericStats struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ValueCount is one entry of a categorical frequency distribution
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile is the per-column analysis result. Stats is set only for
// numeric columns, Distribution only for categorical/identifier columns.
type ColumnProfile struct {
	Name         string        `json:"name"`
	Kind         ColumnKind    `json:"kind"`
	Stats        *NumericStats `json:"stats,omitempty"`
	Distribution []ValueCount  `json:"distribution,omitempty"`
}

// TimePoint is one chronological bucket of an aggregated series
type TimePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// TimeSeries is an ordered, gap-free sequence of aggregated buckets for one
// detected date column. Granularity is "day" or "month".
type TimeSeries struct {
	BucketGranularity string      `json:"bucketGranularity"`
	Measure           string      `json:"measure"`
	Data              []TimePoint `json:"data"`
}

// ForecastPoint is one projected point beyond the observed range
type ForecastPoint struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// Trend captures an ordinary-least-squares fit over a time series plus its
// projected continuation. R2 is clamped to [0, 1]. ResidualStd is the
// population standard deviation of the fit residuals, in the measure's
// units; 0 for a perfect fit.
type Trend struct {
	Slope       float64         `json:"slope"`
	Intercept   float64         `json:"intercept"`
	R2          float64         `json:"r2"`
	ResidualStd float64         `json:"residualStd"`
	Forecast    []ForecastPoint `json:"forecast"`
}

// GroupTotal is one categorical group with its aggregated measure
type GroupTotal struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// Grouping holds per-group totals and the derived performer rankings
type Grouping struct {
	Key            string       `json:"key"`
	Measure        string       `json:"measure"`
	Totals         []GroupTotal `json:"totals"`
	HighPerformers []GroupTotal `json:"highPerformers"`
	LowPerformers  []GroupTotal `json:"lowPerformers"`
}

// Report is the complete analysis output for one dataset. It is created
// fresh per analysis and immutable once returned; ownership passes to the
// persistence layer.
type Report struct {
	Columns      map[string]ColumnProfile `json:"columns"`
	Correlations map[string]float64       `json:"correlations"`
	TimeSeries   map[string]TimeSeries    `json:"timeSeries"`
	Trends       map[string]Trend         `json:"trends"`
	Grouping     *Grouping                `json:"grouping"`
	Warnings     []string                 `json:"warnings,omitempty"`
}

// NewReport returns an empty but valid report (all collections allocated,
// grouping nil). A zero-row dataset analyzes to exactly this.
func NewReport() *Report {
	return &Report{
		Columns:      make(map[string]ColumnProfile),
		Correlations: make(map[string]float64),
		TimeSeries:   make(map[string]TimeSeries),
		Trends:       make(map[string]Trend),
	}
}

// NumericColumns returns the names of numeric columns in header order
func (r *Report) NumericColumns(headers []string) []string {
	var numeric []string
	for _, h := range headers {
		if profile, ok := r.Columns[h]; ok && profile.Kind == KindNumeric {
			numeric = append(numeric, h)
		}
	}
	return numeric
}
