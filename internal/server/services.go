package server

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/service"
)

// Deps are the external clients the services are built on. Fetcher, Detector
// and Images are optional: a nil Fetcher only downloads public photo URLs, a
// nil Detector uses Gemini vision, a nil Images disables the upload endpoint.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Generator service.ContentGenerator
	Fetcher   service.ImageFetcher
	Detector  service.Detector
	Images    service.IImageService
}

// NewServices wires the domain services for the HTTP layer.
func NewServices(cfg *config.Config, deps Deps, log *logger.Logger) (api.Services, error) {
	loc := cfg.Location()

	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = service.NewPublicImageFetcher(cfg.ImageURLPrefixes)
	}
	detector := deps.Detector
	if detector == nil {
		detector = service.NewGeminiDetector(deps.Generator)
	}

	scans := service.NewScanService(deps.DB, log)
	cards, err := service.NewShareCardRenderer(fetcher, loc, log)
	if err != nil {
		return api.Services{}, fmt.Errorf("failed to initialize share card renderer: %w", err)
	}

	svc := api.Services{
		Auth:     service.NewAuthService(cfg.JWTSecret),
		Images:   deps.Images,
		Analysis: service.NewAnalysisService(fetcher, detector, service.NewGeminiNutritionAnalyzer(deps.Generator), log),
		Review:   service.NewReviewService(service.NewRedisDraftStore(deps.Redis), scans, log),
		Scans:    scans,
		Recap:    service.NewRecapService(scans, loc),
		Exporter: service.NewSpreadsheetExporter(loc),
		Cards:    cards,
		Chat:     service.NewChatService(deps.Generator, log),
		Health: map[string]api.HealthChecker{
			"database": api.HealthCheckFunc(func(ctx context.Context) error {
				sqlDB, err := deps.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}),
			"redis": api.HealthCheckFunc(func(ctx context.Context) error {
				return deps.Redis.Ping(ctx).Err()
			}),
		},
	}
	return svc, nil
}
