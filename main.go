package main

import (
	"context"
	"log"

	"datalens/adapters/api"
	"datalens/adapters/excel"
	"datalens/adapters/postgres"
	"datalens/adapters/postgres/migrations"
	"datalens/internal/analysis"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/task"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migrations.NewMigrator(db)
	if err := migrator.Up(context.Background()); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	runner := task.NewRunner(appConfig.Analysis.WorkerCapacity)
	analyzer := analysis.New(appConfig.Analysis, runner)

	server := api.NewServer(appConfig, api.Deps{
		Users:    postgres.NewUserRepository(db),
		Sessions: postgres.NewSessionRepository(db),
		Files:    postgres.NewFileRepository(db),
		Reports:  postgres.NewReportRepository(db),
		Parser:   excel.NewDataReader(),
		Analyzer: analyzer,
	})

	addr := ":" + appConfig.Server.Port
	if err := server.Start(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
