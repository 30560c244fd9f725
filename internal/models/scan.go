package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MenuItemDetection is one food item found on the photo by the detection stage.
// JSON keys keep the Indonesian wire names the prompts ask for.
type MenuItemDetection struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"nama_menu"`
	Grams       float64 `json:"estimasi_gram"`
	Description string  `json:"deskripsi"`
	Preparation string  `json:"proses_pengolahan"`
}

// Nutrients holds the six tracked nutrient amounts. It is both the per item
// breakdown and the scan level summary.
type Nutrients struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	FatG         float64 `json:"fat_g"`
	CarbsG       float64 `json:"carbs_g"`
	SodiumMg     float64 `json:"sodium_mg"`
	FiberG       float64 `json:"fiber_g"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		CaloriesKcal: n.CaloriesKcal + o.CaloriesKcal,
		ProteinG:     n.ProteinG + o.ProteinG,
		FatG:         n.FatG + o.FatG,
		CarbsG:       n.CarbsG + o.CarbsG,
		SodiumMg:     n.SodiumMg + o.SodiumMg,
		FiberG:       n.FiberG + o.FiberG,
	}
}

// NutritionItem is the nutrient breakdown of one menu item.
type NutritionItem struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
	Nutrients
}

// SummaryEvaluation is the balance verdict for the whole meal.
type SummaryEvaluation struct {
	Status         EvaluationStatus `json:"status"`
	Reason         string           `json:"reason"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// NutritionAnalysis is the result of the nutrition stage.
type NutritionAnalysis struct {
	Summary    Nutrients          `json:"nutrition_summary"`
	Items      []NutritionItem    `json:"items"`
	Evaluation *SummaryEvaluation `json:"summary_evaluation,omitempty"`
}

// ScanResult is an analysed but unsaved scan.
type ScanResult struct {
	ImageURL       string              `json:"image_url"`
	ScanDate       time.Time           `json:"scan_date"`
	MenuItems      []MenuItemDetection `json:"menu_items"`
	NutritionFacts NutritionAnalysis   `json:"nutrition_facts"`
	SchoolCategory SchoolCategory      `json:"school_category,omitempty"`
}

// NutritionScan is a persisted scan. Rows are created and deleted, never updated.
type NutritionScan struct {
	ID             uuid.UUID                               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                               `gorm:"type:uuid;not null;index" json:"user_id"`
	ImageURL       string                                  `gorm:"not null" json:"image_url"`
	ScanDate       time.Time                               `gorm:"not null;index" json:"scan_date"`
	MenuItems      datatypes.JSONType[[]MenuItemDetection] `gorm:"not null" json:"menu_items"`
	NutritionFacts datatypes.JSONType[NutritionAnalysis]   `gorm:"not null" json:"nutrition_facts"`
	SchoolCategory SchoolCategory                          `gorm:"type:varchar(32);not null" json:"school_category"`
	CreatedAt      time.Time                               `json:"created_at"`
}

// TableName specifies the table name for the NutritionScan model
func (NutritionScan) TableName() string {
	return "nutrition_scans"
}

// BeforeCreate assigns an id when none is set
func (s *NutritionScan) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Items returns the detected menu items.
func (s *NutritionScan) Items() []MenuItemDetection {
	return s.MenuItems.Data()
}

// Facts returns the nutrition analysis.
func (s *NutritionScan) Facts() NutritionAnalysis {
	return s.NutritionFacts.Data()
}

// NewNutritionScan builds the row persisted for result on behalf of userID.
func NewNutritionScan(userID uuid.UUID, result ScanResult) *NutritionScan {
	scanDate := result.ScanDate
	if scanDate.IsZero() {
		scanDate = time.Now()
	}
	return &NutritionScan{
		UserID:         userID,
		ImageURL:       result.ImageURL,
		ScanDate:       scanDate.UTC(),
		MenuItems:      datatypes.NewJSONType(result.MenuItems),
		NutritionFacts: datatypes.NewJSONType(result.NutritionFacts),
		SchoolCategory: result.SchoolCategory,
	}
}

// PublicScan is the anonymous read projection. It never carries ownership fields.
type PublicScan struct {
	ID             uuid.UUID                             `json:"id"`
	ImageURL       string                                `json:"image_url"`
	ScanDate       time.Time                             `json:"scan_date"`
	NutritionFacts datatypes.JSONType[NutritionAnalysis] `json:"nutrition_facts"`
	SchoolCategory SchoolCategory                        `json:"school_category"`
}

func (PublicScan) TableName() string {
	return "nutrition_scans"
}

// AssignItemIDs gives every menu item a stable id and lets the nutrition item at
// the same position inherit it. Nutrition items without a counterpart get their own.
func AssignItemIDs(menu []MenuItemDetection, items []NutritionItem) {
	for i := range menu {
		if menu[i].ID == "" {
			menu[i].ID = uuid.NewString()
		}
	}
	for i := range items {
		if items[i].ID != "" {
			continue
		}
		if i < len(menu) {
			items[i].ID = menu[i].ID
		} else {
			items[i].ID = uuid.NewString()
		}
	}
}
