package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/database"
	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/server"
	"github.com/gizikita/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load configuration", "error", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.New(logger.Config{
		Level:        cfg.LogLevel,
		Format:       cfg.LogFormat,
		EnableCaller: true,
		Service:      "gizikita-api",
		Environment:  string(config.GetEnvironment()),
	})

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("server error", "error", err)
	}
	log.Info("server stopped")
}

// run owns every connection so they are closed before main exits.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	gormDB, err := db.Gorm()
	if err != nil {
		return fmt.Errorf("failed to initialize gorm: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	deps := server.Deps{
		DB:        gormDB,
		Redis:     rdb,
		Generator: service.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, nil, log),
	}

	if cfg.Storage.Bucket != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		deps.Images = service.NewImageService(s3cfg, log)
	} else {
		log.Warn("no S3 bucket configured, photo uploads are disabled")
	}

	if cfg.Detector == "rekognition" {
		client, err := config.NewRekognitionClient(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize rekognition: %w", err)
		}
		deps.Detector = service.NewRekognitionDetector(client)
		log.Info("using rekognition for menu detection")
	}

	svc, err := server.NewServices(cfg, deps, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	return server.New(cfg, svc, log).Run(ctx)
}
