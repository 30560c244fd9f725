package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/service"
)

// PublicHandler serves the anonymous read surface.
type PublicHandler struct {
	scans service.IScanService
	recap service.IRecapService
	log   *logger.Logger
}

func NewPublicHandler(scans service.IScanService, recap service.IRecapService, log *logger.Logger) *PublicHandler {
	return &PublicHandler{scans: scans, recap: recap, log: log.WithComponent("api.public")}
}

func (h *PublicHandler) RegisterRoutes(router *gin.RouterGroup) {
	public := router.Group("/public")
	{
		public.GET("/scans", h.ListScans)
		public.GET("/recap", h.Recap)
	}
}

func (h *PublicHandler) ListScans(c *gin.Context) {
	scans, err := h.scans.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// Recap returns the calendar for ?year=&month=, defaulting to the current month.
func (h *PublicHandler) Recap(c *gin.Context) {
	year, month := h.recap.CurrentMonth()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		month = m
	}

	cal, err := h.recap.MonthRecap(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}
