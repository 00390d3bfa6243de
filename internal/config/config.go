package config

import (
	"os"
	"strconv"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// StorageConfig holds file storage paths
type StorageConfig struct {
	UploadDir string
}

// AnalysisConfig holds the analysis engine knobs
type AnalysisConfig struct {
	MaxRows         int // hard cap on dataset size, requests above it are rejected
	ForecastHorizon int // projected points appended to each fitted trend
	DailySpanDays   int // observed spans up to this many days bucket daily, longer spans monthly
	WorkerCapacity  int // total weight available to concurrent transform tasks
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Storage: StorageConfig{
			UploadDir: getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		},
		Analysis: AnalysisConfig{
			MaxRows:         getEnvIntOrDefault("MAX_ROWS", 10000),
			ForecastHorizon: getEnvIntOrDefault("FORECAST_HORIZON", 6),
			DailySpanDays:   getEnvIntOrDefault("DAILY_SPAN_DAYS", 60),
			WorkerCapacity:  getEnvIntOrDefault("WORKER_CAPACITY", 8),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Analysis.MaxRows <= 0 {
		return errors.ConfigInvalid("MAX_ROWS must be positive")
	}
	if config.Analysis.ForecastHorizon < 0 {
		return errors.ConfigInvalid("FORECAST_HORIZON cannot be negative")
	}
	if config.Analysis.WorkerCapacity <= 0 {
		return errors.ConfigInvalid("WORKER_CAPACITY must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
