package analysis

import (
	"context"
	"fmt"

	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/analysis/correlate"
	"datalens/internal/analysis/describe"
	"datalens/internal/analysis/grouping"
	"datalens/internal/analysis/timeseries"
	"datalens/internal/analysis/trend"
	"datalens/internal/classify"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/task"
)

// Options overrides the heuristic column role detection. Empty fields fall
// back to DetectRoles.
type Options struct {
	KeyColumn     string
	MeasureColumn string
	RankSize      int
}

// Analyzer sequences classification, statistics, correlation, grouping,
// time-series bucketing and trend fitting over a dataset and assembles the
// report. One Analyzer serves concurrent requests: it holds no per-request
// state, and each call works on its own dataset and produces its own report.
type Analyzer struct {
	classifier *classify.Classifier
	runner     *task.Runner
	config     config.AnalysisConfig
	logger     *internal.Logger
}

// New creates an analyzer with the given engine configuration
func New(cfg config.AnalysisConfig, runner *task.Runner) *Analyzer {
	return &Analyzer{
		classifier: classify.New(classify.DefaultConfig()),
		runner:     runner,
		config:     cfg,
		logger:     internal.DefaultLogger,
	}
}

// Analyze runs the full pipeline with heuristic role detection.
func (a *Analyzer) Analyze(ctx context.Context, ds *dataset.Dataset) (*dataset.Report, error) {
	return a.AnalyzeWithOptions(ctx, ds, Options{})
}

// AnalyzeWithOptions runs the full pipeline. Row counts above the configured
// maximum fail fast with no partial report; a zero-row dataset returns a
// minimal valid report.
func (a *Analyzer) AnalyzeWithOptions(ctx context.Context, ds *dataset.Dataset, opts Options) (*dataset.Report, error) {
	if ds == nil {
		return nil, errors.InvalidInput("dataset is nil")
	}
	rows := len(ds.Rows)
	if ds.TotalRows > rows {
		rows = ds.TotalRows
	}
	if rows > a.config.MaxRows {
		return nil, errors.InputTooLarge(rows, a.config.MaxRows)
	}

	report := dataset.NewReport()
	if len(ds.Rows) == 0 {
		return report, nil
	}

	// Classify every column, then re-clean numeric columns through the task
	// runner so large arrays run off this goroutine and concurrently.
	columns := make([]*classify.Column, 0, len(ds.Headers))
	for _, header := range ds.Headers {
		columns = append(columns, a.classifier.Classify(header, ds.Column(header)))
	}

	cleaned := a.cleanNumericColumns(ctx, columns, report)

	for _, col := range columns {
		profile := dataset.ColumnProfile{Name: col.Name, Kind: col.Kind}
		switch col.Kind {
		case dataset.KindNumeric:
			if values, ok := cleaned[col.Name]; ok {
				profile.Stats = describe.Numeric(values)
			}
		case dataset.KindCategorical, dataset.KindIdentifier:
			profile.Distribution = describe.Distribution(col.Labels)
		}
		report.Columns[col.Name] = profile
	}

	report.Correlations = correlate.Pairwise(columns)

	roles := grouping.DetectRoles(columns)
	if opts.KeyColumn != "" {
		roles.KeyColumn = opts.KeyColumn
	}
	if opts.MeasureColumn != "" {
		roles.MeasureColumn = opts.MeasureColumn
	}

	measure := findColumn(columns, roles.MeasureColumn)
	for _, col := range columns {
		if col.Kind != dataset.KindDatetime {
			continue
		}
		series := timeseries.Build(col, measure, a.config.DailySpanDays)
		if series == nil {
			continue
		}
		report.TimeSeries[col.Name] = *series

		values := make([]float64, len(series.Data))
		for i, point := range series.Data {
			values[i] = point.Value
		}
		fitted := trend.Fit(values, a.config.ForecastHorizon)
		fitted.ResidualStd = a.residualSpread(ctx, col.Name, values, fitted, report)
		report.Trends[col.Name] = fitted
	}

	report.Grouping = grouping.Aggregate(findColumn(columns, roles.KeyColumn), measure, opts.RankSize)

	return report, nil
}

// cleanNumericColumns runs the clean transform for every numeric column
// through the task runner. A transform failure degrades only the affected
// columns: their statistics are marked unavailable via a report warning and
// the rest of the analysis proceeds.
func (a *Analyzer) cleanNumericColumns(ctx context.Context, columns []*classify.Column, report *dataset.Report) map[string][]float64 {
	var names []string
	var tasks []task.Task
	for _, col := range columns {
		if col.Kind != dataset.KindNumeric {
			continue
		}
		names = append(names, col.Name)
		tasks = append(tasks, task.Task{Kind: task.KindClean, Raw: col.Labels})
	}
	if len(tasks) == 0 {
		return nil
	}

	cleaned := make(map[string][]float64, len(names))
	results, err := a.runner.RunAll(ctx, tasks)
	if err != nil {
		a.logger.Warn("numeric clean transform failed: %v", err)
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("statistics unavailable for numeric columns: %v", err))
		return cleaned
	}
	for i, name := range names {
		cleaned[name] = results[i]
	}
	return cleaned
}

// residualSpread derives the population standard deviation of the fit
// residuals for one series, computed through the same transform runner
// that cleans numeric columns: residual_i = y_i - slope*i - intercept. A
// transform failure degrades to a report warning and a zero spread; the
// trend keeps its fit.
func (a *Analyzer) residualSpread(ctx context.Context, name string, values []float64, fitted dataset.Trend, report *dataset.Report) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	xs := make([]float64, n)
	slopes := make([]float64, n)
	intercepts := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
		slopes[i] = fitted.Slope
		intercepts[i] = fitted.Intercept
	}

	run := func(t task.Task) ([]float64, bool) {
		res := <-a.runner.Run(ctx, t)
		if res.Err != nil {
			a.logger.Warn("residual transform failed for %s: %v", name, res.Err)
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("residual spread unavailable for %s: %v", name, res.Err))
			return nil, false
		}
		return res.Values, true
	}

	scaled, ok := run(task.Task{Kind: task.KindMultiply, A: xs, B: slopes})
	if !ok {
		return 0
	}
	offset, ok := run(task.Task{Kind: task.KindSubtract, A: values, B: scaled})
	if !ok {
		return 0
	}
	residuals, ok := run(task.Task{Kind: task.KindSubtract, A: offset, B: intercepts})
	if !ok {
		return 0
	}

	stats := describe.Numeric(residuals)
	if stats == nil {
		return 0
	}
	return stats.Std
}

func findColumn(columns []*classify.Column, name string) *classify.Column {
	if name == "" {
		return nil
	}
	for _, col := range columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}
