package testhelpers

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
	"github.com/gizikita/backend/internal/types"
)

// TestJWTSecret signs tokens in handler and integration tests.
const TestJWTSecret = "test-jwt-secret"

// SetupRedis starts an in-process Redis and returns a client for it.
func SetupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// SampleScanResult returns an analysed scan of nasi goreng and telur rebus.
func SampleScanResult(category models.SchoolCategory) models.ScanResult {
	return models.ScanResult{
		ImageURL: "https://cdn.example.com/scan-images/sample.jpg",
		ScanDate: time.Date(2025, 5, 12, 4, 30, 0, 0, time.UTC),
		MenuItems: []models.MenuItemDetection{
			{Name: "Nasi Goreng", Grams: 200, Description: "Nasi goreng dengan sayuran", Preparation: "Digoreng"},
			{Name: "Telur Rebus", Grams: 50, Description: "Satu butir telur", Preparation: "Direbus"},
		},
		NutritionFacts: models.NutritionAnalysis{
			Summary: models.Nutrients{CaloriesKcal: 410, ProteinG: 15.5, FatG: 17, CarbsG: 50.5, SodiumMg: 662, FiberG: 2},
			Items: []models.NutritionItem{
				{Name: "Nasi Goreng", Grams: 200, Nutrients: models.Nutrients{CaloriesKcal: 340, ProteinG: 9, FatG: 12, CarbsG: 50, SodiumMg: 600, FiberG: 2}},
				{Name: "Telur Rebus", Grams: 50, Nutrients: models.Nutrients{CaloriesKcal: 70, ProteinG: 6.5, FatG: 5, CarbsG: 0.5, SodiumMg: 62, FiberG: 0}},
			},
			Evaluation: &models.SummaryEvaluation{
				Status: models.StatusBalanced,
				Reason: "Karbohidrat dan protein cukup",
			},
		},
		SchoolCategory: category,
	}
}

// CreateTestScan persists a scan for userID dated at scanDate with the given menu names.
func CreateTestScan(t *testing.T, db *gorm.DB, userID uuid.UUID, scanDate time.Time, names ...string) *models.NutritionScan {
	t.Helper()
	result := SampleScanResult(models.CategoryLowerPrimary)
	result.ScanDate = scanDate
	if len(names) > 0 {
		result.MenuItems = nil
		for _, name := range names {
			result.MenuItems = append(result.MenuItems, models.MenuItemDetection{Name: name, Grams: 100})
		}
	}
	scan := models.NewNutritionScan(userID, result)
	require.NoError(t, db.Create(scan).Error)
	return scan
}

// CreateTestToken signs a token for userID with TestJWTSecret.
func CreateTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := service.NewAuthService(TestJWTSecret).GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	return token
}

// MockTokenValidator is a mock token validator for testing
type MockTokenValidator struct {
	Claims *types.TokenClaims
	Error  error
}

// ValidateToken validates a token and returns claims
func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Claims, nil
}
