package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/types"
)

// IAuthService defines the interface for token validation
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

// IAnalysisService runs the two stage detection and nutrition pipeline
type IAnalysisService interface {
	Analyze(ctx context.Context, imageURL string) (*models.ScanResult, error)
}

// IReviewService defines the draft review operations
type IReviewService interface {
	Start(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*Draft, error)
	Get(ctx context.Context, userID uuid.UUID, id string) (*Draft, error)
	UpdateMenuItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*Draft, error)
	UpdateNutritionItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*Draft, error)
	SetCategory(ctx context.Context, userID uuid.UUID, id string, category string) (*Draft, error)
	Save(ctx context.Context, userID uuid.UUID, id string) (*models.NutritionScan, error)
	Cancel(ctx context.Context, userID uuid.UUID, id string) error
}

// IScanService defines the persisted scan operations
type IScanService interface {
	Save(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.NutritionScan, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.NutritionScan, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListPublic(ctx context.Context) ([]models.PublicScan, error)
}

// IRecapService builds the public monthly calendar
type IRecapService interface {
	CurrentMonth() (int, int)
	MonthRecap(ctx context.Context, year, month int) (*MonthCalendar, error)
}

// IExporter renders scans to a spreadsheet
type IExporter interface {
	Export(scans []models.NutritionScan) ([]byte, error)
}

// IShareCardRenderer renders a scan to a PNG card
type IShareCardRenderer interface {
	Render(ctx context.Context, scan *models.NutritionScan) ([]byte, error)
}

// IChatService answers nutrition questions
type IChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// IImageService stores uploaded scan photos
type IImageService interface {
	UploadScanImage(ctx context.Context, data []byte, contentType string) (string, error)
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IAnalysisService   = (*AnalysisService)(nil)
	_ IReviewService     = (*ReviewService)(nil)
	_ IScanService       = (*ScanService)(nil)
	_ IRecapService      = (*RecapService)(nil)
	_ IExporter          = (*SpreadsheetExporter)(nil)
	_ IShareCardRenderer = (*ShareCardRenderer)(nil)
	_ IChatService       = (*ChatService)(nil)
	_ IImageService      = (*ImageService)(nil)
	_ ScanCreator        = (*ScanService)(nil)
	_ PublicScanRanger   = (*ScanService)(nil)
	_ ContentGenerator   = (*GeminiClient)(nil)
	_ DraftStore         = (*RedisDraftStore)(nil)
)
