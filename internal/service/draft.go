package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
)

// DraftState is the review lifecycle of a working scan.
type DraftState string

const (
	DraftReview DraftState = "review"
	DraftSaved  DraftState = "saved"
)

// Draft is a working scan under review. It is edited in place until it is
// saved once, after which the persisted scan is immutable.
type Draft struct {
	ID        string            `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	State     DraftState        `json:"state"`
	Scan      models.ScanResult `json:"scan"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Editable menu item fields.
const (
	FieldMenuName        = "nama_menu"
	FieldMenuGrams       = "estimasi_gram"
	FieldMenuDescription = "deskripsi"
	FieldMenuPreparation = "proses_pengolahan"
)

// UpdateMenuItem sets one field of the menu item at index. It does not touch
// the nutrition facts.
func (d *Draft) UpdateMenuItem(index int, field string, value any) error {
	items := d.Scan.MenuItems
	if index < 0 || index >= len(items) {
		return InputError(fmt.Sprintf("menu item index %d out of range", index))
	}

	item := &items[index]
	switch field {
	case FieldMenuName, FieldMenuDescription, FieldMenuPreparation:
		s, ok := value.(string)
		if !ok {
			return InputError(fmt.Sprintf("%s must be text", field))
		}
		switch field {
		case FieldMenuName:
			if strings.TrimSpace(s) == "" {
				return InputError("nama_menu must not be empty")
			}
			item.Name = s
		case FieldMenuDescription:
			item.Description = s
		default:
			item.Preparation = s
		}
	case FieldMenuGrams:
		grams, err := coerceNumber(value)
		if err != nil {
			return err
		}
		item.Grams = grams
	default:
		return InputError(fmt.Sprintf("unknown menu item field %q", field))
	}
	return nil
}

// UpdateNutritionItem sets one numeric field of the nutrition item at index
// and recomputes the summary before returning.
func (d *Draft) UpdateNutritionItem(index int, field string, value any) error {
	items := d.Scan.NutritionFacts.Items
	if index < 0 || index >= len(items) {
		return InputError(fmt.Sprintf("nutrition item index %d out of range", index))
	}

	v, err := coerceNumber(value)
	if err != nil {
		return err
	}

	item := &items[index]
	switch field {
	case "grams":
		item.Grams = v
	case "calories_kcal":
		item.CaloriesKcal = v
	case "protein_g":
		item.ProteinG = v
	case "fat_g":
		item.FatG = v
	case "carbs_g":
		item.CarbsG = v
	case "sodium_mg":
		item.SodiumMg = v
	case "fiber_g":
		item.FiberG = v
	default:
		return InputError(fmt.Sprintf("unknown nutrition field %q", field))
	}

	d.Scan.NutritionFacts.Summary = nutrition.Aggregate(items)
	return nil
}

// SetCategory assigns the school category.
func (d *Draft) SetCategory(value string) error {
	c, err := models.ParseSchoolCategory(value)
	if err != nil {
		return InputError("Invalid school category")
	}
	d.Scan.SchoolCategory = c
	return nil
}

// Validate reports whether the draft can be saved.
func (d *Draft) Validate() error {
	return ValidateScan(d.Scan)
}

// ValidateScan checks the fields required to persist a scan.
func ValidateScan(scan models.ScanResult) error {
	if scan.SchoolCategory == "" {
		return ValidationFailure(MsgCategoryMissing)
	}
	if !scan.SchoolCategory.Valid() {
		return ValidationFailure("Invalid school category")
	}
	if strings.TrimSpace(scan.ImageURL) == "" {
		return ValidationFailure("Image URL is required")
	}
	return nil
}

// clone returns a deep copy so failed edits never leak into the stored draft.
func (d *Draft) clone() *Draft {
	c := *d
	c.Scan.MenuItems = append([]models.MenuItemDetection(nil), d.Scan.MenuItems...)
	c.Scan.NutritionFacts.Items = append([]models.NutritionItem(nil), d.Scan.NutritionFacts.Items...)
	if d.Scan.NutritionFacts.Evaluation != nil {
		ev := *d.Scan.NutritionFacts.Evaluation
		c.Scan.NutritionFacts.Evaluation = &ev
	}
	return &c
}

// coerceNumber accepts JSON numbers and numeric strings. Unparsable and
// non-finite input becomes zero, negative input is rejected.
func coerceNumber(value any) (float64, error) {
	var v float64
	switch x := value.(type) {
	case float64:
		v = x
	case int:
		v = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil {
			v = parsed
		}
	case nil:
		v = 0
	default:
		return 0, InputError("value must be a number")
	}
	v = nutrition.Coerce(v)
	if v < 0 {
		return 0, InputError("value must not be negative")
	}
	return v, nil
}
