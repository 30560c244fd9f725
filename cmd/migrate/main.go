package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/database"
	"github.com/gizikita/backend/internal/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load configuration", "error", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "migrate"})

	if err := migrate(context.Background(), cfg, *dir, log); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("all migrations applied")
}

func migrate(ctx context.Context, cfg *config.Config, dir string, log *logger.Logger) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	gormDB, err := db.Gorm()
	if err != nil {
		return fmt.Errorf("failed to initialize gorm: %w", err)
	}
	return database.RunMigrations(gormDB, dir, log)
}
