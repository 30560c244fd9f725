package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/mocks"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/service"
	"github.com/gizikita/backend/internal/testhelpers"
)

func sampleDraft(category models.SchoolCategory) *service.Draft {
	return &service.Draft{
		ID:     "draft-1",
		UserID: testUserID,
		State:  service.DraftReview,
		Scan:   testhelpers.SampleScanResult(category),
	}
}

func TestGetDraft(t *testing.T) {
	review := new(mocks.MockReviewService)
	review.On("Get", mock.Anything, testUserID, "draft-1").Return(sampleDraft(""), nil)
	review.On("Get", mock.Anything, testUserID, "missing").Return(nil, service.NotFound("Draft not found", service.ErrDraftNotFound))
	router := setupRouter(t, api.Services{Review: review})

	w := doRequest(router, http.MethodGet, "/api/v1/drafts/draft-1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "draft-1", body["id"])
	assert.Equal(t, "review", body["state"])
	assert.Contains(t, body, "daily_values")

	w = doRequest(router, http.MethodGet, "/api/v1/drafts/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Draft not found", decode(t, w)["error"])
}

func TestUpdateNutritionItem(t *testing.T) {
	review := new(mocks.MockReviewService)
	review.On("UpdateNutritionItem", mock.Anything, testUserID, "draft-1", 1, "protein_g", float64(10)).
		Return(sampleDraft(""), nil)
	router := setupRouter(t, api.Services{Review: review})

	w := doRequest(router, http.MethodPatch, "/api/v1/drafts/draft-1/nutrition-items/1",
		gin.H{"field": "protein_g", "value": 10}, true)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	review.AssertExpectations(t)
}

func TestUpdateMenuItem(t *testing.T) {
	review := new(mocks.MockReviewService)
	review.On("UpdateMenuItem", mock.Anything, testUserID, "draft-1", 0, "nama_menu", "Nasi Uduk").
		Return(sampleDraft(""), nil)
	review.On("UpdateMenuItem", mock.Anything, testUserID, "draft-1", 5, "nama_menu", "Nasi Uduk").
		Return(nil, service.InputError("menu item index 5 out of range"))
	router := setupRouter(t, api.Services{Review: review})

	w := doRequest(router, http.MethodPatch, "/api/v1/drafts/draft-1/menu-items/0",
		gin.H{"field": "nama_menu", "value": "Nasi Uduk"}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/drafts/draft-1/menu-items/5",
		gin.H{"field": "nama_menu", "value": "Nasi Uduk"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPatch, "/api/v1/drafts/draft-1/menu-items/first",
		gin.H{"field": "nama_menu", "value": "Nasi Uduk"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid item index", decode(t, w)["error"])

	w = doRequest(router, http.MethodPatch, "/api/v1/drafts/draft-1/menu-items/0", gin.H{"value": "x"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetCategory(t *testing.T) {
	review := new(mocks.MockReviewService)
	review.On("SetCategory", mock.Anything, testUserID, "draft-1", "SD_1_3").
		Return(sampleDraft(models.CategoryLowerPrimary), nil)
	router := setupRouter(t, api.Services{Review: review})

	w := doRequest(router, http.MethodPut, "/api/v1/drafts/draft-1/category", gin.H{"school_category": "SD_1_3"}, true)
	assert.Equal(t, http.StatusOK, w.Code)
	scan := decode(t, w)["scan"].(map[string]any)
	assert.Equal(t, "lower-primary", scan["school_category"])

	w = doRequest(router, http.MethodPut, "/api/v1/drafts/draft-1/category", gin.H{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgCategoryMissing, decode(t, w)["error"])
}

func TestSaveDraft(t *testing.T) {
	saved := models.NewNutritionScan(testUserID, testhelpers.SampleScanResult(models.CategoryLowerPrimary))
	saved.ID = uuid.New()

	tests := []struct {
		name   string
		ret    *models.NutritionScan
		err    error
		status int
	}{
		{"saved", saved, nil, http.StatusCreated},
		{"category missing", nil, service.ValidationFailure(service.MsgCategoryMissing), http.StatusBadRequest},
		{"in flight", nil, service.Conflict("Save already in progress", service.ErrSaveInProgress), http.StatusConflict},
		{"store down", nil, service.PersistenceFailure(service.MsgSaveFailed, assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := new(mocks.MockReviewService)
			review.On("Save", mock.Anything, testUserID, "draft-1").Return(tt.ret, tt.err)
			router := setupRouter(t, api.Services{Review: review})

			w := doRequest(router, http.MethodPost, "/api/v1/drafts/draft-1/save", nil, true)
			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			if tt.err == nil {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, saved.ID.String(), body["data"].(map[string]any)["id"])
			} else {
				assert.Contains(t, body, "error")
			}
		})
	}
}

func TestCancelDraft(t *testing.T) {
	review := new(mocks.MockReviewService)
	review.On("Cancel", mock.Anything, testUserID, "draft-1").Return(nil)
	router := setupRouter(t, api.Services{Review: review})

	w := doRequest(router, http.MethodDelete, "/api/v1/drafts/draft-1", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	review.AssertExpectations(t)
}
