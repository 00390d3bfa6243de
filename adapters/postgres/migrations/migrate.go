package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrator handles database schema migrations
type Migrator struct {
	db *sqlx.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

// migration is one versioned schema step, applied in order
type migration struct {
	Version string
	SQL     string
}

var schema = []migration{
	{
		Version: "001_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Version: "002_sessions",
		SQL: `CREATE TABLE IF NOT EXISTS sessions (
			token UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Version: "003_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			original_filename TEXT NOT NULL,
			stored_path TEXT,
			file_size BIGINT,
			mime_type TEXT,
			row_count INTEGER,
			column_count INTEGER,
			status TEXT NOT NULL,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Version: "004_reports",
		SQL: `CREATE TABLE IF NOT EXISTS reports (
			id UUID NOT NULL UNIQUE,
			file_id UUID PRIMARY KEY REFERENCES files(id) ON DELETE CASCADE,
			payload JSONB NOT NULL,
			analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Version: "005_files_user_idx",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_files_user_created ON files(user_id, created_at DESC)`,
	},
}

// Up executes all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, step := range schema {
		if applied[step.Version] {
			continue
		}
		if err := m.apply(ctx, step); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", step.Version, err)
		}
	}
	return nil
}

func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, step migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1)`, step.Version); err != nil {
		return err
	}
	return tx.Commit()
}
