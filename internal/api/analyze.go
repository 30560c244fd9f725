package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	ImageURL string `json:"imageUrl"`
}

// AnalyzeHandler runs the detection and nutrition pipeline and opens a review draft.
type AnalyzeHandler struct {
	analysis service.IAnalysisService
	review   service.IReviewService
	auth     middleware.TokenValidator
	log      *logger.Logger
}

func NewAnalyzeHandler(analysis service.IAnalysisService, review service.IReviewService, auth middleware.TokenValidator, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		review:   review,
		auth:     auth,
		log:      log.WithComponent("api.analyze"),
	}
}

func (h *AnalyzeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze", middleware.AuthMiddleware(h.auth), h.Analyze)
}

func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), strings.TrimSpace(req.ImageURL))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	draft, err := h.review.Start(c.Request.Context(), userID, *result)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draft_id":        draft.ID,
		"image_url":       draft.Scan.ImageURL,
		"scan_date":       draft.Scan.ScanDate,
		"menu_items":      draft.Scan.MenuItems,
		"nutrition_facts": draft.Scan.NutritionFacts,
		"daily_values":    nutrition.DailyValues(draft.Scan.NutritionFacts.Summary),
	})
}
