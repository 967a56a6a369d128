package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	_ "github.com/joho/godotenv/autoload"

	"github.com/texora/texora-core/internal/config"
	"github.com/texora/texora-core/internal/database"
	"github.com/texora/texora-core/internal/jobs"
	"github.com/texora/texora-core/internal/repository"
	"github.com/texora/texora-core/internal/services"
	"github.com/texora/texora-core/pkg/logger"
)

// auditd runs the maintenance side of the audit core: it schedules the
// retention purge that is the only legitimate way audit entries are ever
// deleted. The web application links the services directly; this daemon
// only needs the store.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories and services
	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos, cfg)

	// Start background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Schedule the retention purge
	retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
	interval := time.Duration(cfg.RetentionIntervalHrs) * time.Hour
	worker.ScheduleEveryImmediate(interval, func(ctx context.Context) error {
		purged, err := svcs.Audit.PurgeOlderThan(ctx, retention)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Info("Purged expired audit entries", "count", purged)
		}
		return nil
	})
	logger.Info("Scheduled audit retention purge",
		"retention_days", cfg.AuditRetentionDays,
		"interval_hours", cfg.RetentionIntervalHrs)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Exited gracefully")
}
