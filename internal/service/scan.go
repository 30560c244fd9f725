package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
)

// PublicScanLimit caps the anonymous listing.
const PublicScanLimit = 50

// publicColumns is the projection served to anonymous readers.
const publicColumns = "id, image_url, scan_date, nutrition_facts, school_category"

// ScanCreator persists a reviewed scan.
type ScanCreator interface {
	Create(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error)
}

// ScanService handles persisted nutrition scans
type ScanService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewScanService creates a new ScanService instance
func NewScanService(db *gorm.DB, log *logger.Logger) *ScanService {
	return &ScanService{db: db, log: log.WithComponent("scans")}
}

// Create inserts a scan row. Errors are returned unclassified.
func (s *ScanService) Create(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error) {
	scan := models.NewNutritionScan(userID, result)
	if err := s.db.WithContext(ctx).Create(scan).Error; err != nil {
		return nil, err
	}
	s.log.Info("scan saved", "scan_id", scan.ID, "user_id", userID, "items", len(result.MenuItems))
	return scan, nil
}

// Save validates and persists a client supplied scan.
func (s *ScanService) Save(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error) {
	if userID == uuid.Nil {
		return nil, &Error{Kind: KindAuth, Message: "Unauthorized"}
	}
	if err := ValidateScan(result); err != nil {
		return nil, err
	}
	result.MenuItems = append([]models.MenuItemDetection(nil), result.MenuItems...)
	result.NutritionFacts.Items = append([]models.NutritionItem(nil), result.NutritionFacts.Items...)
	models.AssignItemIDs(result.MenuItems, result.NutritionFacts.Items)
	result.NutritionFacts.Summary = nutrition.Aggregate(result.NutritionFacts.Items)

	scan, err := s.Create(ctx, userID, result)
	if err != nil {
		s.log.Error("failed to save scan", "user_id", userID, "error", err)
		return nil, PersistenceFailure(MsgSaveFailed, err)
	}
	return scan, nil
}

// ListByUser returns every scan owned by userID, newest first.
func (s *ScanService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.NutritionScan, error) {
	var scans []models.NutritionScan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scan_date DESC").
		Find(&scans).Error
	if err != nil {
		return nil, PersistenceFailure("Failed to fetch scans", err)
	}
	return scans, nil
}

// Get returns one scan owned by userID.
func (s *ScanService) Get(ctx context.Context, userID, id uuid.UUID) (*models.NutritionScan, error) {
	var scan models.NutritionScan
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&scan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("Scan not found", ErrScanNotFound)
	}
	if err != nil {
		return nil, PersistenceFailure("Failed to fetch scan", err)
	}
	return &scan, nil
}

// Delete removes a scan owned by userID.
func (s *ScanService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.NutritionScan{})
	if res.Error != nil {
		s.log.Error("failed to delete scan", "scan_id", id, "error", res.Error)
		return PersistenceFailure("Failed to delete scan", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("Scan not found", ErrScanNotFound)
	}
	s.log.Info("scan deleted", "scan_id", id, "user_id", userID)
	return nil
}

// ListPublic returns the latest scans without ownership fields.
func (s *ScanService) ListPublic(ctx context.Context) ([]models.PublicScan, error) {
	var scans []models.PublicScan
	err := s.db.WithContext(ctx).
		Select(publicColumns).
		Order("scan_date DESC").
		Limit(PublicScanLimit).
		Find(&scans).Error
	if err != nil {
		return nil, PersistenceFailure("Failed to fetch scans", err)
	}
	return scans, nil
}

// ListPublicBetween returns public scans with from <= scan_date < to, newest first.
func (s *ScanService) ListPublicBetween(ctx context.Context, from, to time.Time) ([]models.PublicScan, error) {
	var scans []models.PublicScan
	err := s.db.WithContext(ctx).
		Select(publicColumns).
		Where("scan_date >= ? AND scan_date < ?", from.UTC(), to.UTC()).
		Order("scan_date DESC").
		Find(&scans).Error
	if err != nil {
		return nil, PersistenceFailure("Failed to fetch scans", err)
	}
	return scans, nil
}
