package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/texora/texora-core/internal/config"
	"github.com/texora/texora-core/internal/database"
	"github.com/texora/texora-core/internal/models"
	"github.com/texora/texora-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	logger.Info("Running migrations")
	if err := db.AutoMigrate(
		&models.Counter{},
		&models.Party{},
		&models.Quality{},
		&models.Order{},
		&models.OrderItem{},
		&models.AuditLog{},
	); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Migrations completed")
}
