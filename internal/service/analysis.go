package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
)

// AnalysisService runs the two stage pipeline: detect the menu items on a
// photo, then compute their nutrition facts.
type AnalysisService struct {
	fetcher  ImageFetcher
	detector Detector
	analyzer NutritionAnalyzer
	log      *logger.Logger
	now      func() time.Time
}

func NewAnalysisService(fetcher ImageFetcher, detector Detector, analyzer NutritionAnalyzer, log *logger.Logger) *AnalysisService {
	return &AnalysisService{
		fetcher:  fetcher,
		detector: detector,
		analyzer: analyzer,
		log:      log.WithComponent("analysis"),
		now:      time.Now,
	}
}

// Analyze produces an unsaved scan for the photo at imageURL. Any failure is
// reported as an AnalysisFailure or, when the provider is overloaded, a
// RateLimitFailure. Causes are logged and never returned as user text.
func (s *AnalysisService) Analyze(ctx context.Context, imageURL string) (*models.ScanResult, error) {
	if imageURL == "" {
		return nil, InputError("Image URL is required")
	}

	img, err := s.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return nil, s.fail("fetch", err)
	}

	s.log.Info("starting food detection", "image_url", imageURL, "content_type", img.ContentType)
	menuItems, err := s.detector.DetectMenuItems(ctx, img)
	if err != nil {
		return nil, s.fail("detection", err)
	}

	s.log.Info("starting nutrition analysis", "items", len(menuItems))
	facts, err := s.analyzer.AnalyzeNutrition(ctx, menuItems)
	if err != nil {
		return nil, s.fail("nutrition", err)
	}

	models.AssignItemIDs(menuItems, facts.Items)

	summary := nutrition.Aggregate(facts.Items)
	if !closeEnough(summary, facts.Summary) {
		s.log.Warn("model summary differs from item sum, using item sum",
			"model_kcal", facts.Summary.CaloriesKcal, "sum_kcal", summary.CaloriesKcal)
	}
	facts.Summary = summary

	return &models.ScanResult{
		ImageURL:       imageURL,
		ScanDate:       s.now().UTC(),
		MenuItems:      menuItems,
		NutritionFacts: *facts,
	}, nil
}

func (s *AnalysisService) fail(stage string, err error) error {
	if errors.Is(err, ErrProviderOverload) {
		s.log.Warn("provider overloaded", "stage", stage, "error", err)
		return RateLimitFailure(MsgProviderBusy, err)
	}
	s.log.Error("analysis failed", "stage", stage, "error", err)
	return AnalysisFailure(err)
}

func closeEnough(a, b models.Nutrients) bool {
	const tolerance = 0.5
	return math.Abs(a.CaloriesKcal-b.CaloriesKcal) <= tolerance &&
		math.Abs(a.ProteinG-b.ProteinG) <= tolerance &&
		math.Abs(a.FatG-b.FatG) <= tolerance &&
		math.Abs(a.CarbsG-b.CarbsG) <= tolerance &&
		math.Abs(a.SodiumMg-b.SodiumMg) <= tolerance &&
		math.Abs(a.FiberG-b.FiberG) <= tolerance
}
