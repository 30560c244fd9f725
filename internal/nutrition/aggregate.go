// Package nutrition holds the pure nutrient arithmetic shared by the analysis
// pipeline, the review controller and the export adapters.
package nutrition

import (
	"math"

	"github.com/gizikita/backend/internal/models"
)

// Aggregate returns the field-wise sum of items. An empty slice yields zeros.
func Aggregate(items []models.NutritionItem) models.Nutrients {
	var total models.Nutrients
	for _, item := range items {
		total = total.Add(item.Nutrients)
	}
	return total
}

// Coerce maps NaN and infinities to zero.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Reference daily values the percentages are computed against.
const (
	DailyCaloriesKcal = 2000
	DailyProteinG     = 50
	DailyFatG         = 65
	DailyCarbsG       = 300
	DailySodiumMg     = 2300
	DailyFiberG       = 25
)

// DailyValuePercent is the share of the daily value per nutrient, rounded to whole percent.
type DailyValuePercent struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Fat      int `json:"fat"`
	Carbs    int `json:"carbs"`
	Sodium   int `json:"sodium"`
	Fiber    int `json:"fiber"`
}

// DailyValues computes the percentage of daily value for summary.
func DailyValues(summary models.Nutrients) DailyValuePercent {
	return DailyValuePercent{
		Calories: percent(summary.CaloriesKcal, DailyCaloriesKcal),
		Protein:  percent(summary.ProteinG, DailyProteinG),
		Fat:      percent(summary.FatG, DailyFatG),
		Carbs:    percent(summary.CarbsG, DailyCarbsG),
		Sodium:   percent(summary.SodiumMg, DailySodiumMg),
		Fiber:    percent(summary.FiberG, DailyFiberG),
	}
}

// Capped clamps every percentage to 100, for progress bars.
func (d DailyValuePercent) Capped() DailyValuePercent {
	return DailyValuePercent{
		Calories: min(d.Calories, 100),
		Protein:  min(d.Protein, 100),
		Fat:      min(d.Fat, 100),
		Carbs:    min(d.Carbs, 100),
		Sodium:   min(d.Sodium, 100),
		Fiber:    min(d.Fiber, 100),
	}
}

func percent(v, daily float64) int {
	return int(math.Round(Coerce(v) / daily * 100))
}
