package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
)

// MockAnalysisService is a mock implementation of service.IAnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, imageURL string) (*models.ScanResult, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanResult), args.Error(1)
}

// MockReviewService is a mock implementation of service.IReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) draft(args mock.Arguments) (*service.Draft, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Draft), args.Error(1)
}

func (m *MockReviewService) Start(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*service.Draft, error) {
	return m.draft(m.Called(ctx, userID, result))
}

func (m *MockReviewService) Get(ctx context.Context, userID uuid.UUID, id string) (*service.Draft, error) {
	return m.draft(m.Called(ctx, userID, id))
}

func (m *MockReviewService) UpdateMenuItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*service.Draft, error) {
	return m.draft(m.Called(ctx, userID, id, index, field, value))
}

func (m *MockReviewService) UpdateNutritionItem(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*service.Draft, error) {
	return m.draft(m.Called(ctx, userID, id, index, field, value))
}

func (m *MockReviewService) SetCategory(ctx context.Context, userID uuid.UUID, id string, category string) (*service.Draft, error) {
	return m.draft(m.Called(ctx, userID, id, category))
}

func (m *MockReviewService) Save(ctx context.Context, userID uuid.UUID, id string) (*models.NutritionScan, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionScan), args.Error(1)
}

func (m *MockReviewService) Cancel(ctx context.Context, userID uuid.UUID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockScanService is a mock implementation of service.IScanService
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Save(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error) {
	args := m.Called(ctx, userID, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionScan), args.Error(1)
}

func (m *MockScanService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.NutritionScan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NutritionScan), args.Error(1)
}

func (m *MockScanService) Get(ctx context.Context, userID, id uuid.UUID) (*models.NutritionScan, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionScan), args.Error(1)
}

func (m *MockScanService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockScanService) ListPublic(ctx context.Context) ([]models.PublicScan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PublicScan), args.Error(1)
}

// MockRecapService is a mock implementation of service.IRecapService
type MockRecapService struct {
	mock.Mock
}

func (m *MockRecapService) CurrentMonth() (int, int) {
	args := m.Called()
	return args.Int(0), args.Int(1)
}

func (m *MockRecapService) MonthRecap(ctx context.Context, year, month int) (*service.MonthCalendar, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MonthCalendar), args.Error(1)
}

// MockExporter is a mock implementation of service.IExporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(scans []models.NutritionScan) ([]byte, error) {
	args := m.Called(scans)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockShareCardRenderer is a mock implementation of service.IShareCardRenderer
type MockShareCardRenderer struct {
	mock.Mock
}

func (m *MockShareCardRenderer) Render(ctx context.Context, scan *models.NutritionScan) ([]byte, error) {
	args := m.Called(ctx, scan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockChatService is a mock implementation of service.IChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Reply(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

// MockImageService is a mock implementation of service.IImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadScanImage(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}
