package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
	"github.com/gizikita/backend/internal/testhelpers"
)

func TestScanServiceSave(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewScanService(db, logger.Nop())
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Save(ctx, uuid.Nil, testhelpers.SampleScanResult(models.CategoryLowerPrimary))
	assert.Equal(t, service.KindAuth, service.KindOf(err))

	_, err = svc.Save(ctx, user, testhelpers.SampleScanResult(""))
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	local := time.FixedZone("WIB", 7*3600)
	result := testhelpers.SampleScanResult(models.CategoryLowerPrimary)
	result.ScanDate = time.Date(2025, 5, 12, 11, 30, 0, 0, local)

	scan, err := svc.Save(ctx, user, result)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, scan.ID)
	assert.Equal(t, time.UTC, scan.ScanDate.Location())
	assert.True(t, scan.ScanDate.Equal(result.ScanDate))

	loaded, err := svc.Get(ctx, user, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", loaded.Items()[0].Name)
	assert.Equal(t, models.StatusBalanced, loaded.Facts().Evaluation.Status)
}

func TestScanServiceListAndDeleteAreOwnerScoped(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewScanService(db, logger.Nop())
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	base := time.Date(2025, 5, 1, 4, 0, 0, 0, time.UTC)
	older := testhelpers.CreateTestScan(t, db, alice, base, "Bubur Ayam")
	newer := testhelpers.CreateTestScan(t, db, alice, base.Add(48*time.Hour), "Nasi Uduk")
	foreign := testhelpers.CreateTestScan(t, db, bob, base.Add(24*time.Hour), "Soto")

	scans, err := svc.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, newer.ID, scans[0].ID)
	assert.Equal(t, older.ID, scans[1].ID)

	_, err = svc.Get(ctx, alice, foreign.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	assert.ErrorIs(t, err, service.ErrScanNotFound)

	assert.Equal(t, service.KindNotFound, service.KindOf(svc.Delete(ctx, alice, foreign.ID)))
	require.NoError(t, svc.Delete(ctx, alice, older.ID))
	assert.Equal(t, service.KindNotFound, service.KindOf(svc.Delete(ctx, alice, older.ID)))

	scans, err = svc.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, scans, 1)
}

func TestScanServiceSaveRecomputesSummary(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewScanService(db, logger.Nop())
	ctx := context.Background()
	user := uuid.New()

	result := testhelpers.SampleScanResult(models.CategoryLowerPrimary)
	result.NutritionFacts.Summary.CaloriesKcal = 99999
	result.NutritionFacts.Summary.SodiumMg = 0

	saved, err := svc.Save(ctx, user, result)
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, user, saved.ID)
	require.NoError(t, err)
	facts := loaded.Facts()
	assert.Equal(t, nutrition.Aggregate(facts.Items), facts.Summary)
	assert.Equal(t, 410.0, facts.Summary.CaloriesKcal)
	assert.Equal(t, 662.0, facts.Summary.SodiumMg)

	menu := loaded.Items()
	require.Len(t, menu, 2)
	for i := range menu {
		assert.NotEmpty(t, menu[i].ID)
		assert.Equal(t, menu[i].ID, facts.Items[i].ID)
	}

	// the caller's payload is left alone
	assert.Equal(t, 99999.0, result.NutritionFacts.Summary.CaloriesKcal)
	assert.Empty(t, result.MenuItems[0].ID)
}

func TestScanServicePublicProjection(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewScanService(db, logger.Nop())
	ctx := context.Background()

	base := time.Date(2025, 4, 1, 3, 0, 0, 0, time.UTC)
	for i := 0; i < service.PublicScanLimit+5; i++ {
		testhelpers.CreateTestScan(t, db, uuid.New(), base.Add(time.Duration(i)*time.Hour))
	}

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, service.PublicScanLimit)
	assert.True(t, public[0].ScanDate.After(public[1].ScanDate))

	raw, err := json.Marshal(public[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "user_id")
	assert.NotContains(t, string(raw), "menu_items")

	between, err := svc.ListPublicBetween(ctx, base, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, between, 3)
}
