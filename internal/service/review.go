package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
)

// ReviewService is the server side review controller. It owns working scans
// until they are saved once or cancelled.
type ReviewService struct {
	drafts DraftStore
	scans  ScanCreator
	log    *logger.Logger
	now    func() time.Time
}

func NewReviewService(drafts DraftStore, scans ScanCreator, log *logger.Logger) *ReviewService {
	return &ReviewService{
		drafts: drafts,
		scans:  scans,
		log:    log.WithComponent("review"),
		now:    time.Now,
	}
}

// Start opens a draft for result.
func (s *ReviewService) Start(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*Draft, error) {
	now := s.now()
	draft := &Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		State:     DraftReview,
		Scan:      result,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.Scan.ScanDate.IsZero() {
		draft.Scan.ScanDate = now.UTC()
	}
	models.AssignItemIDs(draft.Scan.MenuItems, draft.Scan.NutritionFacts.Items)

	if err := s.drafts.Put(ctx, draft); err != nil {
		s.log.Error("failed to store draft", "error", err)
		return nil, PersistenceFailure("Failed to store draft", err)
	}
	return draft, nil
}

// Get returns the caller's draft.
func (s *ReviewService) Get(ctx context.Context, userID uuid.UUID, id string) (*Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, NotFound("Draft not found", ErrDraftNotFound)
	}
	if err != nil {
		return nil, PersistenceFailure("Failed to load draft", err)
	}
	if draft.UserID != userID {
		return nil, NotFound("Draft not found", ErrDraftNotFound)
	}
	return draft, nil
}

// UpdateMenuItem edits one field of a detected menu item.
func (s *ReviewService) UpdateMenuItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*Draft, error) {
	return s.edit(ctx, userID, id, func(d *Draft) error {
		return d.UpdateMenuItem(index, field, value)
	})
}

// UpdateNutritionItem edits one nutrient and re-aggregates the summary.
func (s *ReviewService) UpdateNutritionItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*Draft, error) {
	return s.edit(ctx, userID, id, func(d *Draft) error {
		return d.UpdateNutritionItem(index, field, value)
	})
}

// SetCategory assigns the school category.
func (s *ReviewService) SetCategory(ctx context.Context, userID uuid.UUID, id string, category string) (*Draft, error) {
	return s.edit(ctx, userID, id, func(d *Draft) error {
		return d.SetCategory(category)
	})
}

// edit applies fn to a copy of the draft and stores the copy only when fn succeeds.
func (s *ReviewService) edit(ctx context.Context, userID uuid.UUID, id string, fn func(*Draft) error) (*Draft, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if current.State != DraftReview {
		return nil, Conflict("Draft already saved", ErrDraftAlreadySaved)
	}

	next := current.clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()

	if err := s.drafts.Put(ctx, next); err != nil {
		s.log.Error("failed to store draft", "draft_id", id, "error", err)
		return nil, PersistenceFailure("Failed to store draft", err)
	}
	return next, nil
}

// Save validates and persists the draft. On any failure the stored draft is
// left as it was so the caller can retry.
func (s *ReviewService) Save(ctx context.Context, userID uuid.UUID, id string) (*models.NutritionScan, error) {
	draft, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.State != DraftReview {
		return nil, Conflict("Draft already saved", ErrDraftAlreadySaved)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	acquired, err := s.drafts.AcquireSaveLock(ctx, id)
	if err != nil {
		return nil, PersistenceFailure(MsgSaveFailed, err)
	}
	if !acquired {
		return nil, Conflict("Save already in progress", ErrSaveInProgress)
	}
	defer func() {
		if err := s.drafts.ReleaseSaveLock(context.WithoutCancel(ctx), id); err != nil {
			s.log.Warn("failed to release save lock", "draft_id", id, "error", err)
		}
	}()

	// a concurrent save may have finished between the first read and the lock
	draft, err = s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if draft.State != DraftReview {
		return nil, Conflict("Draft already saved", ErrDraftAlreadySaved)
	}

	scan, err := s.scans.Create(ctx, userID, draft.Scan)
	if err != nil {
		s.log.Error("failed to save scan", "draft_id", id, "error", err)
		return nil, PersistenceFailure(MsgSaveFailed, err)
	}

	draft.State = DraftSaved
	bg := context.WithoutCancel(ctx)
	if err := s.drafts.Delete(bg, id); err != nil {
		s.log.Warn("saved scan but failed to drop draft", "draft_id", id, "error", err)
		// a saved draft must not be saved again
		if err := s.drafts.Put(bg, draft); err != nil {
			s.log.Error("failed to mark draft saved", "draft_id", id, "scan_id", scan.ID, "error", err)
		}
	}
	s.log.Info("draft saved", "draft_id", id, "scan_id", scan.ID)
	return scan, nil
}

// Cancel discards the draft without persisting anything.
func (s *ReviewService) Cancel(ctx context.Context, userID uuid.UUID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return PersistenceFailure("Failed to discard draft", err)
	}
	return nil
}
