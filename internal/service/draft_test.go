package service_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
	"github.com/gizikita/backend/internal/testhelpers"
)

func newDraft() *service.Draft {
	return &service.Draft{
		ID:     uuid.NewString(),
		UserID: uuid.New(),
		State:  service.DraftReview,
		Scan:   testhelpers.SampleScanResult(""),
	}
}

func TestDraftUpdateNutritionItemReaggregates(t *testing.T) {
	d := newDraft()

	require.NoError(t, d.UpdateNutritionItem(1, "calories_kcal", 100.0))
	assert.Equal(t, 440.0, d.Scan.NutritionFacts.Summary.CaloriesKcal)
	assert.Equal(t, 100.0, d.Scan.NutritionFacts.Items[1].CaloriesKcal)

	require.NoError(t, d.UpdateNutritionItem(0, "protein_g", "12.5"))
	assert.Equal(t, 19.0, d.Scan.NutritionFacts.Summary.ProteinG)

	require.NoError(t, d.UpdateNutritionItem(0, "sodium_mg", 0))
	assert.Equal(t, 62.0, d.Scan.NutritionFacts.Summary.SodiumMg)
}

func TestDraftUpdateNutritionItemCoercion(t *testing.T) {
	d := newDraft()

	require.NoError(t, d.UpdateNutritionItem(0, "fat_g", "abc"))
	assert.Zero(t, d.Scan.NutritionFacts.Items[0].FatG)

	require.NoError(t, d.UpdateNutritionItem(0, "carbs_g", math.NaN()))
	assert.Zero(t, d.Scan.NutritionFacts.Items[0].CarbsG)

	require.NoError(t, d.UpdateNutritionItem(0, "fiber_g", math.Inf(1)))
	assert.Zero(t, d.Scan.NutritionFacts.Items[0].FiberG)

	require.NoError(t, d.UpdateNutritionItem(0, "grams", nil))
	assert.Zero(t, d.Scan.NutritionFacts.Items[0].Grams)

	assert.Equal(t, 5.0, d.Scan.NutritionFacts.Summary.FatG)
	assert.Equal(t, 0.5, d.Scan.NutritionFacts.Summary.CarbsG)
}

func TestDraftUpdateNutritionItemRejects(t *testing.T) {
	d := newDraft()
	before := d.Scan.NutritionFacts.Summary

	err := d.UpdateNutritionItem(0, "calories_kcal", -1.0)
	assert.Equal(t, service.KindInput, service.KindOf(err))

	err = d.UpdateNutritionItem(5, "calories_kcal", 1.0)
	assert.Equal(t, service.KindInput, service.KindOf(err))

	err = d.UpdateNutritionItem(0, "vitamin_c", 1.0)
	assert.Equal(t, service.KindInput, service.KindOf(err))

	err = d.UpdateNutritionItem(0, "fat_g", true)
	assert.Equal(t, service.KindInput, service.KindOf(err))

	assert.Equal(t, before, d.Scan.NutritionFacts.Summary)
}

func TestDraftSummaryMatchesItemsAfterRandomEdits(t *testing.T) {
	fields := []string{"grams", "calories_kcal", "protein_g", "fat_g", "carbs_g", "sodium_mg", "fiber_g", "vitamin_c"}
	values := func(r *rand.Rand) any {
		switch r.Intn(7) {
		case 0:
			return -r.Float64() * 100
		case 1:
			return math.NaN()
		case 2:
			return math.Inf(1)
		case 3:
			return "abc"
		case 4:
			return true
		case 5:
			return r.Intn(500)
		default:
			return r.Float64() * 800
		}
	}

	for seed := int64(1); seed <= 20; seed++ {
		r := rand.New(rand.NewSource(seed))
		d := newDraft()
		for step := 0; step < 200; step++ {
			index := r.Intn(len(d.Scan.NutritionFacts.Items)+2) - 1
			field := fields[r.Intn(len(fields))]
			value := values(r)

			before := append([]models.NutritionItem(nil), d.Scan.NutritionFacts.Items...)
			err := d.UpdateNutritionItem(index, field, value)

			facts := d.Scan.NutritionFacts
			require.Equal(t, nutrition.Aggregate(facts.Items), facts.Summary,
				"seed %d step %d: edit %d/%s=%v", seed, step, index, field, value)
			if err != nil {
				require.Equal(t, service.KindInput, service.KindOf(err))
				require.Equal(t, before, facts.Items, "seed %d step %d: rejected edit changed items", seed, step)
			}
		}
	}
}

func TestDraftUpdateMenuItem(t *testing.T) {
	d := newDraft()
	summary := d.Scan.NutritionFacts.Summary

	require.NoError(t, d.UpdateMenuItem(0, service.FieldMenuName, "Nasi Goreng Kampung"))
	require.NoError(t, d.UpdateMenuItem(0, service.FieldMenuGrams, "250"))
	require.NoError(t, d.UpdateMenuItem(1, service.FieldMenuDescription, "Telur ayam kampung"))
	require.NoError(t, d.UpdateMenuItem(1, service.FieldMenuPreparation, "Direbus 10 menit"))

	assert.Equal(t, "Nasi Goreng Kampung", d.Scan.MenuItems[0].Name)
	assert.Equal(t, 250.0, d.Scan.MenuItems[0].Grams)
	assert.Equal(t, "Telur ayam kampung", d.Scan.MenuItems[1].Description)
	assert.Equal(t, "Direbus 10 menit", d.Scan.MenuItems[1].Preparation)
	assert.Equal(t, summary, d.Scan.NutritionFacts.Summary, "menu edits never re-aggregate")

	assert.Error(t, d.UpdateMenuItem(0, service.FieldMenuName, "  "))
	assert.Error(t, d.UpdateMenuItem(0, service.FieldMenuName, 12.0))
	assert.Error(t, d.UpdateMenuItem(2, service.FieldMenuName, "x"))
	assert.Error(t, d.UpdateMenuItem(0, "kalori", "x"))
}

func TestDraftCategoryAndValidate(t *testing.T) {
	d := newDraft()

	err := d.Validate()
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, service.KindValidation, svcErr.Kind)
	assert.Equal(t, service.MsgCategoryMissing, svcErr.Message)

	assert.Equal(t, service.KindInput, service.KindOf(d.SetCategory("universitas")))

	require.NoError(t, d.SetCategory(string(models.CategoryJuniorSecondary)))
	assert.NoError(t, d.Validate())

	d.Scan.ImageURL = ""
	assert.Equal(t, service.KindValidation, service.KindOf(d.Validate()))
}
