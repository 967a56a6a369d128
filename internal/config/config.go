package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Environment string

	// Database
	DatabaseURL string

	// Background Workers
	WorkerCount int

	// Audit log retention
	AuditRetentionDays   int
	RetentionIntervalHrs int

	// Order numbering
	OrderNumberFormat string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 3),
		AuditRetentionDays:   getEnvAsInt("AUDIT_RETENTION_DAYS", 365),
		RetentionIntervalHrs: getEnvAsInt("RETENTION_INTERVAL_HOURS", 24),
		OrderNumberFormat:    getEnv("ORDER_NUMBER_FORMAT", "ORD-#####"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AuditRetentionDays < 1 {
		return nil, fmt.Errorf("AUDIT_RETENTION_DAYS must be at least 1")
	}
	if cfg.RetentionIntervalHrs < 1 {
		return nil, fmt.Errorf("RETENTION_INTERVAL_HOURS must be at least 1")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
