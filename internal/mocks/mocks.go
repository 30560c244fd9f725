package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
)

// MockContentGenerator is a mock implementation of service.ContentGenerator
type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, req service.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockImageFetcher is a mock implementation of service.ImageFetcher
type MockImageFetcher struct {
	mock.Mock
}

func (m *MockImageFetcher) Fetch(ctx context.Context, url string) (*service.Image, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Image), args.Error(1)
}

// MockDetector is a mock implementation of service.Detector
type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) DetectMenuItems(ctx context.Context, img *service.Image) ([]models.MenuItemDetection, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuItemDetection), args.Error(1)
}

// MockNutritionAnalyzer is a mock implementation of service.NutritionAnalyzer
type MockNutritionAnalyzer struct {
	mock.Mock
}

func (m *MockNutritionAnalyzer) AnalyzeNutrition(ctx context.Context, items []models.MenuItemDetection) (*models.NutritionAnalysis, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionAnalysis), args.Error(1)
}

// MockLabelDetector is a mock of the Rekognition DetectLabels call
type MockLabelDetector struct {
	mock.Mock
}

func (m *MockLabelDetector) DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rekognition.DetectLabelsOutput), args.Error(1)
}

// MockObjectPutter is a mock of the S3 PutObject call
type MockObjectPutter struct {
	mock.Mock
}

func (m *MockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

// MockScanCreator is a mock implementation of service.ScanCreator
type MockScanCreator struct {
	mock.Mock
}

func (m *MockScanCreator) Create(ctx context.Context, userID uuid.UUID, result models.ScanResult) (*models.NutritionScan, error) {
	args := m.Called(ctx, userID, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NutritionScan), args.Error(1)
}
