package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/ports"
)

// fileRepository implements the FileRepository interface
type fileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *sqlx.DB) ports.FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, user_id, original_filename,
	COALESCE(stored_path, '') AS stored_path,
	COALESCE(file_size, 0) AS file_size,
	COALESCE(mime_type, '') AS mime_type,
	COALESCE(row_count, 0) AS row_count,
	COALESCE(column_count, 0) AS column_count,
	status, COALESCE(error_message, '') AS error_message,
	created_at, updated_at`

// Create inserts a new file record
func (r *fileRepository) Create(ctx context.Context, file *dataset.File) error {
	query := `INSERT INTO files (
		id, user_id, original_filename, stored_path, file_size, mime_type,
		row_count, column_count, status, error_message, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.UserID, file.OriginalFilename, file.StoredPath, file.FileSize,
		file.MimeType, file.RowCount, file.ColumnCount, file.Status, file.ErrorMessage,
		file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

// GetByID retrieves a file record by its ID
func (r *fileRepository) GetByID(ctx context.Context, id core.FileID) (*dataset.File, error) {
	var file dataset.File
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	err := r.db.GetContext(ctx, &file, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("file not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &file, nil
}

// ListByUser retrieves a user's files with pagination, newest first
func (r *fileRepository) ListByUser(ctx context.Context, userID core.UserID, limit, offset int) ([]*dataset.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM files
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, fileColumns)

	var files []*dataset.File
	err := r.db.SelectContext(ctx, &files, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	return files, nil
}

// Update modifies an existing file record
func (r *fileRepository) Update(ctx context.Context, file *dataset.File) error {
	query := `UPDATE files SET
		stored_path = $2, file_size = $3, mime_type = $4, row_count = $5,
		column_count = $6, status = $7, error_message = $8, updated_at = $9
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		file.ID, file.StoredPath, file.FileSize, file.MimeType, file.RowCount,
		file.ColumnCount, file.Status, file.ErrorMessage, file.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("file not found: %s", file.ID)
	}
	return nil
}

// Delete removes a file record
func (r *fileRepository) Delete(ctx context.Context, id core.FileID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
