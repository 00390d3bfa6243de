package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/ports"
)

// reportRepository implements the ReportRepository interface. Reports are
// stored as JSONB keyed by file id; one report per file, upserted on
// re-analysis.
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Save upserts the analysis report for a file. Each analysis run gets a
// fresh report id; re-analysis replaces the row under the same file.
func (r *reportRepository) Save(ctx context.Context, fileID core.FileID, report *dataset.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO reports (id, file_id, payload, analyzed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_id) DO UPDATE SET id = $1, payload = $3, analyzed_at = $4`

	_, err = r.db.ExecContext(ctx, query, core.NewReportID(), fileID, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByFileID retrieves the stored report for a file
func (r *reportRepository) GetByFileID(ctx context.Context, fileID core.FileID) (*dataset.Report, error) {
	var payload []byte
	query := `SELECT payload FROM reports WHERE file_id = $1`

	err := r.db.QueryRowContext(ctx, query, fileID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report not found for file: %s", fileID)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report dataset.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// DeleteByFileID removes the stored report for a file
func (r *reportRepository) DeleteByFileID(ctx context.Context, fileID core.FileID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE file_id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}
