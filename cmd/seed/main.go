package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gizikita/backend/config"
	"github.com/gizikita/backend/internal/database"
	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
)

type demoMenu struct {
	category models.SchoolCategory
	status   models.EvaluationStatus
	reason   string
	items    []models.NutritionItem
}

var demoMenus = []demoMenu{
	{
		category: models.CategoryLowerPrimary,
		status:   models.StatusBalanced,
		reason:   "Komposisi karbohidrat, protein dan sayur seimbang",
		items: []models.NutritionItem{
			{Name: "Nasi Putih", Grams: 150, Nutrients: models.Nutrients{CaloriesKcal: 195, ProteinG: 4, FatG: 0.4, CarbsG: 43, SodiumMg: 2, FiberG: 0.6}},
			{Name: "Ayam Goreng", Grams: 80, Nutrients: models.Nutrients{CaloriesKcal: 210, ProteinG: 19, FatG: 14, CarbsG: 2, SodiumMg: 320, FiberG: 0}},
			{Name: "Sayur Bayam", Grams: 100, Nutrients: models.Nutrients{CaloriesKcal: 36, ProteinG: 3, FatG: 0.5, CarbsG: 6, SodiumMg: 120, FiberG: 2.4}},
		},
	},
	{
		category: models.CategoryJuniorSecondary,
		status:   models.StatusUnbalanced,
		reason:   "Kurang sayur dan serat",
		items: []models.NutritionItem{
			{Name: "Mie Goreng", Grams: 200, Nutrients: models.Nutrients{CaloriesKcal: 420, ProteinG: 9, FatG: 17, CarbsG: 58, SodiumMg: 980, FiberG: 2}},
			{Name: "Telur Ceplok", Grams: 50, Nutrients: models.Nutrients{CaloriesKcal: 90, ProteinG: 6, FatG: 7, CarbsG: 0.4, SodiumMg: 95, FiberG: 0}},
		},
	},
	{
		category: models.CategoryEarlyChildhood,
		status:   models.StatusBalanced,
		reason:   "Porsi sesuai untuk anak usia dini",
		items: []models.NutritionItem{
			{Name: "Bubur Ayam", Grams: 200, Nutrients: models.Nutrients{CaloriesKcal: 250, ProteinG: 11, FatG: 6, CarbsG: 38, SodiumMg: 410, FiberG: 1}},
			{Name: "Pisang", Grams: 80, Nutrients: models.Nutrients{CaloriesKcal: 71, ProteinG: 0.9, FatG: 0.3, CarbsG: 18, SodiumMg: 1, FiberG: 2.1}},
		},
	},
}

func demoResult(m demoMenu, date time.Time) models.ScanResult {
	menu := make([]models.MenuItemDetection, len(m.items))
	for i, item := range m.items {
		menu[i] = models.MenuItemDetection{Name: item.Name, Grams: item.Grams, Description: item.Name, Preparation: "-"}
	}
	return models.ScanResult{
		ImageURL:  "https://placehold.co/1080x720/png?text=" + menu[0].Name,
		ScanDate:  date,
		MenuItems: menu,
		NutritionFacts: models.NutritionAnalysis{
			Summary:    nutrition.Aggregate(m.items),
			Items:      m.items,
			Evaluation: &models.SummaryEvaluation{Status: m.status, Reason: m.reason},
		},
		SchoolCategory: m.category,
	}
}

func main() {
	userFlag := flag.String("user", "", "user id to seed scans for (random when empty)")
	days := flag.Int("days", 30, "number of past days to seed, one scan per school day")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.Config{}).Fatal("failed to load configuration", "error", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "text", Service: "seed"})

	userID := uuid.New()
	if *userFlag != "" {
		if userID, err = uuid.Parse(*userFlag); err != nil {
			log.Fatal("invalid user id", "error", err)
		}
	}

	created, err := seed(context.Background(), cfg, userID, *days, log)
	if err != nil {
		log.Fatal("seed failed", "error", err)
	}

	token, err := service.NewAuthService(cfg.JWTSecret).GenerateToken(userID, 7*24*time.Hour)
	if err != nil {
		log.Fatal("failed to sign token", "error", err)
	}

	log.Info("seed complete", "user_id", userID, "scans", created)
	fmt.Printf("Bearer token for %s (valid 7 days):\n%s\n", userID, token)
}

// seed inserts one lunch scan per school day over the past days.
func seed(ctx context.Context, cfg *config.Config, userID uuid.UUID, days int, log *logger.Logger) (int, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()
	gormDB, err := db.Gorm()
	if err != nil {
		return 0, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	scans := service.NewScanService(gormDB, log)
	loc := cfg.Location()
	today := time.Now().In(loc)
	created := 0
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		lunch := time.Date(day.Year(), day.Month(), day.Day(), 11, 30, 0, 0, loc)
		m := demoMenus[i%len(demoMenus)]
		if _, err := scans.Create(ctx, userID, demoResult(m, lunch)); err != nil {
			return created, fmt.Errorf("failed to create scan for %s: %w", lunch.Format("2006-01-02"), err)
		}
		created++
	}
	return created, nil
}
