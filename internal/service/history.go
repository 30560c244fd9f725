package service

import (
	"math"
	"strings"

	"github.com/gizikita/backend/internal/models"
)

// HistoryPageSize is the number of scans per history page.
const HistoryPageSize = 6

// HistoryFilter narrows the history list. Zero fields match everything.
type HistoryFilter struct {
	Search   string
	Status   models.EvaluationStatus
	Category models.SchoolCategory
	Month    string // YYYY-MM, compared in UTC
}

// Apply returns the scans matching every set criterion, keeping their order.
func (f HistoryFilter) Apply(scans []models.NutritionScan) []models.NutritionScan {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.NutritionScan, 0, len(scans))
	for i := range scans {
		scan := &scans[i]
		if needle != "" && !strings.Contains(strings.ToLower(MenuNames(scan.Items())), needle) {
			continue
		}
		if f.Status != "" {
			ev := scan.Facts().Evaluation
			if ev == nil || ev.Status != f.Status {
				continue
			}
		}
		if f.Category != "" && scan.SchoolCategory != f.Category {
			continue
		}
		if f.Month != "" && scan.ScanDate.UTC().Format("2006-01") != f.Month {
			continue
		}
		out = append(out, *scan)
	}
	return out
}

// MenuNames joins the item names with ", ".
func MenuNames(items []models.MenuItemDetection) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return strings.Join(names, ", ")
}

// Page is one page of a list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into pages of pageSize. The requested page is
// clamped to [1, max(1, totalPages)].
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = HistoryPageSize
	}
	totalPages := int(math.Ceil(float64(len(items)) / float64(pageSize)))
	page = max(1, min(page, max(1, totalPages)))

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	slice := []T{}
	if start < end {
		slice = items[start:end]
	}
	return Page[T]{
		Items:      slice,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(items),
		TotalPages: totalPages,
	}
}

// HistoryStats summarises a list of scans.
type HistoryStats struct {
	TotalScans      int     `json:"total_scans"`
	Balanced        int     `json:"balanced"`
	Unbalanced      int     `json:"unbalanced"`
	AverageCalories float64 `json:"average_calories"`
}

// Stats computes the history summary card.
func Stats(scans []models.NutritionScan) HistoryStats {
	stats := HistoryStats{TotalScans: len(scans)}
	var kcal float64
	for i := range scans {
		facts := scans[i].Facts()
		kcal += facts.Summary.CaloriesKcal
		if facts.Evaluation == nil {
			continue
		}
		switch facts.Evaluation.Status {
		case models.StatusBalanced:
			stats.Balanced++
		case models.StatusUnbalanced:
			stats.Unbalanced++
		}
	}
	if len(scans) > 0 {
		stats.AverageCalories = math.Round(kcal/float64(len(scans))*10) / 10
	}
	return stats
}
