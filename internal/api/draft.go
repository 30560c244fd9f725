package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
)

// EditFieldRequest sets one field of a menu or nutrition item.
type EditFieldRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// CategoryRequest sets the school category of a draft.
type CategoryRequest struct {
	SchoolCategory string `json:"school_category"`
}

// DraftResponse is a draft with its daily value percentages.
type DraftResponse struct {
	*service.Draft
	DailyValues nutrition.DailyValuePercent `json:"daily_values"`
}

func newDraftResponse(d *service.Draft) DraftResponse {
	return DraftResponse{Draft: d, DailyValues: nutrition.DailyValues(d.Scan.NutritionFacts.Summary)}
}

// DraftHandler exposes the review controller.
type DraftHandler struct {
	review service.IReviewService
	auth   middleware.TokenValidator
	log    *logger.Logger
}

func NewDraftHandler(review service.IReviewService, auth middleware.TokenValidator, log *logger.Logger) *DraftHandler {
	return &DraftHandler{review: review, auth: auth, log: log.WithComponent("api.drafts")}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/drafts", middleware.AuthMiddleware(h.auth))
	{
		drafts.GET("/:id", h.GetDraft)
		drafts.PATCH("/:id/menu-items/:index", h.UpdateMenuItem)
		drafts.PATCH("/:id/nutrition-items/:index", h.UpdateNutritionItem)
		drafts.PUT("/:id/category", h.SetCategory)
		drafts.POST("/:id/save", h.SaveDraft)
		drafts.DELETE("/:id", h.CancelDraft)
	}
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.review.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newDraftResponse(draft))
}

func (h *DraftHandler) UpdateMenuItem(c *gin.Context) {
	h.editItem(c, h.review.UpdateMenuItem)
}

func (h *DraftHandler) UpdateNutritionItem(c *gin.Context) {
	h.editItem(c, h.review.UpdateNutritionItem)
}

type itemEditor func(ctx context.Context, userID uuid.UUID, id string, index int, field string, value any) (*service.Draft, error)

func (h *DraftHandler) editItem(c *gin.Context, edit itemEditor) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
		return
	}
	var req EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}

	draft, err := edit(c.Request.Context(), userID, c.Param("id"), index, req.Field, req.Value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newDraftResponse(draft))
}

func (h *DraftHandler) SetCategory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SchoolCategory == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.MsgCategoryMissing})
		return
	}
	draft, err := h.review.SetCategory(c.Request.Context(), userID, c.Param("id"), req.SchoolCategory)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newDraftResponse(draft))
}

func (h *DraftHandler) SaveDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	scan, err := h.review.Save(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": scan})
}

func (h *DraftHandler) CancelDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.review.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
