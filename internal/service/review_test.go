package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/mocks"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
	"github.com/gizikita/backend/internal/testhelpers"
)

type reviewFixture struct {
	review *service.ReviewService
	scans  *service.ScanService
	store  *service.RedisDraftStore
	user   uuid.UUID
}

func setupReview(t *testing.T) *reviewFixture {
	client, _ := testhelpers.SetupRedis(t)
	db := testhelpers.SetupSQLiteDB(t)
	store := service.NewRedisDraftStore(client)
	scans := service.NewScanService(db, logger.Nop())
	return &reviewFixture{
		review: service.NewReviewService(store, scans, logger.Nop()),
		scans:  scans,
		store:  store,
		user:   uuid.New(),
	}
}

func TestReviewEditAndSave(t *testing.T) {
	f := setupReview(t)
	ctx := context.Background()

	draft, err := f.review.Start(ctx, f.user, testhelpers.SampleScanResult(""))
	require.NoError(t, err)
	assert.Equal(t, service.DraftReview, draft.State)
	assert.NotEmpty(t, draft.Scan.MenuItems[0].ID)

	updated, err := f.review.UpdateNutritionItem(ctx, f.user, draft.ID, 0, "calories_kcal", 300.0)
	require.NoError(t, err)
	assert.Equal(t, 370.0, updated.Scan.NutritionFacts.Summary.CaloriesKcal)

	_, err = f.review.UpdateMenuItem(ctx, f.user, draft.ID, 1, service.FieldMenuName, "Telur Balado")
	require.NoError(t, err)

	// saving without a category fails and leaves the draft untouched
	_, err = f.review.Save(ctx, f.user, draft.ID)
	assert.Equal(t, service.KindValidation, service.KindOf(err))
	stored, err := f.review.Get(ctx, f.user, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 370.0, stored.Scan.NutritionFacts.Summary.CaloriesKcal)
	assert.Equal(t, "Telur Balado", stored.Scan.MenuItems[1].Name)

	_, err = f.review.SetCategory(ctx, f.user, draft.ID, "sd_1_3")
	require.NoError(t, err)

	scan, err := f.review.Save(ctx, f.user, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user, scan.UserID)
	assert.Equal(t, models.CategoryLowerPrimary, scan.SchoolCategory)
	assert.Equal(t, 370.0, scan.Facts().Summary.CaloriesKcal)

	// draft is gone after a successful save
	_, err = f.review.Get(ctx, f.user, draft.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	history, err := f.scans.ListByUser(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReviewFailedEditKeepsStoredDraft(t *testing.T) {
	f := setupReview(t)
	ctx := context.Background()

	draft, err := f.review.Start(ctx, f.user, testhelpers.SampleScanResult(""))
	require.NoError(t, err)

	_, err = f.review.UpdateNutritionItem(ctx, f.user, draft.ID, 0, "calories_kcal", -10.0)
	assert.Equal(t, service.KindInput, service.KindOf(err))

	stored, err := f.store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 340.0, stored.Scan.NutritionFacts.Items[0].CaloriesKcal)
	assert.Equal(t, 410.0, stored.Scan.NutritionFacts.Summary.CaloriesKcal)
}

func TestReviewDraftsAreOwned(t *testing.T) {
	f := setupReview(t)
	ctx := context.Background()

	draft, err := f.review.Start(ctx, f.user, testhelpers.SampleScanResult(models.CategoryEarlyChildhood))
	require.NoError(t, err)

	other := uuid.New()
	_, err = f.review.Get(ctx, other, draft.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	_, err = f.review.Save(ctx, other, draft.ID)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	assert.Equal(t, service.KindNotFound, service.KindOf(f.review.Cancel(ctx, other, draft.ID)))
}

func TestReviewCancel(t *testing.T) {
	f := setupReview(t)
	ctx := context.Background()

	draft, err := f.review.Start(ctx, f.user, testhelpers.SampleScanResult(models.CategoryEarlyChildhood))
	require.NoError(t, err)
	require.NoError(t, f.review.Cancel(ctx, f.user, draft.ID))

	_, err = f.store.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)

	history, err := f.scans.ListByUser(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReviewSaveInFlightConflict(t *testing.T) {
	f := setupReview(t)
	ctx := context.Background()

	draft, err := f.review.Start(ctx, f.user, testhelpers.SampleScanResult(models.CategoryUpperPrimary))
	require.NoError(t, err)

	ok, err := f.store.AcquireSaveLock(ctx, draft.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.review.Save(ctx, f.user, draft.ID)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	assert.ErrorIs(t, err, service.ErrSaveInProgress)

	require.NoError(t, f.store.ReleaseSaveLock(ctx, draft.ID))
	_, err = f.review.Save(ctx, f.user, draft.ID)
	assert.NoError(t, err)
}

// racingStore runs another save to completion while the first one waits for
// its lock, reproducing a save that read the draft before it was dropped.
type racingStore struct {
	*service.RedisDraftStore
	race func()
}

func (s *racingStore) AcquireSaveLock(ctx context.Context, id string) (bool, error) {
	if race := s.race; race != nil {
		s.race = nil
		race()
	}
	return s.RedisDraftStore.AcquireSaveLock(ctx, id)
}

func TestReviewSaveRaceSavesOnce(t *testing.T) {
	client, _ := testhelpers.SetupRedis(t)
	db := testhelpers.SetupSQLiteDB(t)
	scans := service.NewScanService(db, logger.Nop())
	store := &racingStore{RedisDraftStore: service.NewRedisDraftStore(client)}
	review := service.NewReviewService(store, scans, logger.Nop())
	ctx := context.Background()
	user := uuid.New()

	draft, err := review.Start(ctx, user, testhelpers.SampleScanResult(models.CategoryLowerPrimary))
	require.NoError(t, err)

	var firstErr error
	store.race = func() {
		_, firstErr = review.Save(ctx, user, draft.ID)
	}

	_, err = review.Save(ctx, user, draft.ID)
	require.NoError(t, firstErr)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	history, err := scans.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReviewSavePersistenceFailureIsRetryable(t *testing.T) {
	client, _ := testhelpers.SetupRedis(t)
	store := service.NewRedisDraftStore(client)
	creator := new(mocks.MockScanCreator)
	review := service.NewReviewService(store, creator, logger.Nop())
	ctx := context.Background()
	user := uuid.New()

	draft, err := review.Start(ctx, user, testhelpers.SampleScanResult(models.CategorySeniorSecondary))
	require.NoError(t, err)

	creator.On("Create", mock.Anything, user, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	_, err = review.Save(ctx, user, draft.ID)
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, service.KindPersistence, svcErr.Kind)
	assert.Equal(t, service.MsgSaveFailed, svcErr.Message)

	stored, err := store.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, service.DraftReview, stored.State)

	// lock was released, a manual retry goes through
	creator.On("Create", mock.Anything, user, mock.Anything).Return(&models.NutritionScan{ID: uuid.New(), UserID: user}, nil).Once()
	_, err = review.Save(ctx, user, draft.ID)
	assert.NoError(t, err)
	creator.AssertExpectations(t)
}

func TestRedisDraftStoreTTL(t *testing.T) {
	client, mr := testhelpers.SetupRedis(t)
	store := service.NewRedisDraftStore(client)
	ctx := context.Background()

	draft := &service.Draft{ID: "d1", UserID: uuid.New(), State: service.DraftReview, Scan: testhelpers.SampleScanResult("")}
	require.NoError(t, store.Put(ctx, draft))
	assert.True(t, mr.Exists("scan:draft:d1"))
	assert.Greater(t, mr.TTL("scan:draft:d1").Hours(), 23.0)

	mr.FastForward(mr.TTL("scan:draft:d1") + 1)
	_, err := store.Get(ctx, "d1")
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}
