package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/mocks"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
)

func TestPublicScans(t *testing.T) {
	scans := new(mocks.MockScanService)
	scans.On("ListPublic", mock.Anything).Return([]models.PublicScan{
		{ID: uuid.New(), ImageURL: sampleImageURL, ScanDate: time.Now(), SchoolCategory: models.CategoryLowerPrimary},
	}, nil)
	router := setupRouter(t, api.Services{Scans: scans})

	w := doRequest(router, http.MethodGet, "/api/v1/public/scans", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["scans"].([]any)
	assert.Len(t, list, 1)
	assert.NotContains(t, list[0], "user_id")
	assert.NotContains(t, list[0], "menu_items")
}

func TestPublicRecap(t *testing.T) {
	cal, err := service.GenerateMonthCalendar(2025, 6, nil)
	assert.NoError(t, err)

	recap := new(mocks.MockRecapService)
	recap.On("CurrentMonth").Return(2025, 6)
	recap.On("MonthRecap", mock.Anything, 2025, 6).Return(cal, nil)
	recap.On("MonthRecap", mock.Anything, 2024, 13).Return(nil, service.InputError("invalid month 13"))
	router := setupRouter(t, api.Services{Recap: recap})

	w := doRequest(router, http.MethodGet, "/api/v1/public/recap", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(6), body["month"])
	assert.Len(t, body["weeks"], 6)

	w = doRequest(router, http.MethodGet, "/api/v1/public/recap?year=2024&month=13", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/public/recap?year=next", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid year", decode(t, w)["error"])
}
