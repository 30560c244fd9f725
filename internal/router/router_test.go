package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/mocks"
	"github.com/gizikita/backend/internal/testhelpers"
)

func TestSetupRouter(t *testing.T) {
	svc := api.Services{
		Auth:   &testhelpers.MockTokenValidator{},
		Images: new(mocks.MockImageService),
		Health: map[string]api.HealthChecker{
			"database": api.HealthCheckFunc(func(ctx context.Context) error { return nil }),
		},
	}
	r := SetupRouter([]string{"http://localhost:3000"}, svc, logger.Nop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	routes := map[string]bool{}
	for _, route := range r.Routes() {
		routes[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/uploads",
		"POST /api/v1/analyze",
		"GET /api/v1/drafts/:id",
		"PATCH /api/v1/drafts/:id/menu-items/:index",
		"PATCH /api/v1/drafts/:id/nutrition-items/:index",
		"PUT /api/v1/drafts/:id/category",
		"POST /api/v1/drafts/:id/save",
		"DELETE /api/v1/drafts/:id",
		"POST /api/v1/scans",
		"GET /api/v1/scans",
		"GET /api/v1/scans/export",
		"GET /api/v1/scans/:id",
		"DELETE /api/v1/scans/:id",
		"GET /api/v1/scans/:id/export",
		"GET /api/v1/scans/:id/share-card",
		"GET /api/v1/public/scans",
		"GET /api/v1/public/recap",
		"POST /api/v1/chat",
	} {
		assert.True(t, routes[want], want)
	}
}
