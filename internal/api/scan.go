package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
	"github.com/gizikita/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryResponse is one page of the caller's history plus summary stats.
type HistoryResponse struct {
	service.Page[models.NutritionScan]
	Stats service.HistoryStats `json:"stats"`
}

// ScanDetailResponse is a saved scan with its daily value percentages.
type ScanDetailResponse struct {
	*models.NutritionScan
	DailyValues nutrition.DailyValuePercent `json:"daily_values"`
}

// ScanHandler serves the caller's saved scans.
type ScanHandler struct {
	scans    service.IScanService
	exporter service.IExporter
	cards    service.IShareCardRenderer
	auth     middleware.TokenValidator
	log      *logger.Logger
	now      func() time.Time
}

func NewScanHandler(scans service.IScanService, exporter service.IExporter, cards service.IShareCardRenderer, auth middleware.TokenValidator, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scans:    scans,
		exporter: exporter,
		cards:    cards,
		auth:     auth,
		log:      log.WithComponent("api.scans"),
		now:      time.Now,
	}
}

func (h *ScanHandler) RegisterRoutes(router *gin.RouterGroup) {
	scans := router.Group("/scans", middleware.AuthMiddleware(h.auth))
	{
		scans.POST("", h.SaveScan)
		scans.GET("", h.ListScans)
		scans.GET("/export", h.ExportScans)
		scans.GET("/:id", h.GetScan)
		scans.DELETE("/:id", h.DeleteScan)
		scans.GET("/:id/export", h.ExportScan)
		scans.GET("/:id/share-card", h.ShareCard)
	}
}

// SaveScan persists a client supplied scan in one step.
func (h *ScanHandler) SaveScan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var result models.ScanResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan payload"})
		return
	}
	if result.SchoolCategory != "" {
		if parsed, err := models.ParseSchoolCategory(string(result.SchoolCategory)); err == nil {
			result.SchoolCategory = parsed
		}
	}

	scan, err := h.scans.Save(c.Request.Context(), userID, result)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": scan})
}

// historyFilter reads q, status, category and month from the query string.
func historyFilter(c *gin.Context) (service.HistoryFilter, error) {
	f := service.HistoryFilter{Search: c.Query("q")}
	if v := c.Query("status"); v != "" && v != "all" {
		status, err := models.ParseEvaluationStatus(v)
		if err != nil {
			return f, service.InputError("Invalid status filter")
		}
		f.Status = status
	}
	if v := c.Query("category"); v != "" && v != "all" {
		category, err := models.ParseSchoolCategory(v)
		if err != nil {
			return f, service.InputError("Invalid category filter")
		}
		f.Category = category
	}
	if v := c.Query("month"); v != "" && v != "all" {
		if _, err := time.Parse("2006-01", v); err != nil {
			return f, service.InputError("Invalid month filter, expected YYYY-MM")
		}
		f.Month = v
	}
	return f, nil
}

func (h *ScanHandler) filteredScans(c *gin.Context, userID uuid.UUID) ([]models.NutritionScan, error) {
	filter, err := historyFilter(c)
	if err != nil {
		return nil, err
	}
	scans, err := h.scans.ListByUser(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(scans), nil
}

func (h *ScanHandler) ListScans(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	scans, err := h.filteredScans(c, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	c.JSON(http.StatusOK, HistoryResponse{
		Page:  service.Paginate(scans, page, service.HistoryPageSize),
		Stats: service.Stats(scans),
	})
}

// ExportScans downloads the filtered history. An empty set answers 204.
func (h *ScanHandler) ExportScans(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	scans, err := h.filteredScans(c, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.writeExport(c, scans)
}

func (h *ScanHandler) ExportScan(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	h.writeExport(c, []models.NutritionScan{*scan})
}

func (h *ScanHandler) writeExport(c *gin.Context, scans []models.NutritionScan) {
	data, err := h.exporter.Export(scans)
	if errors.Is(err, service.ErrNothingToExport) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(h.now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ScanHandler) loadScan(c *gin.Context) (*models.NutritionScan, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan ID"})
		return nil, false
	}
	scan, err := h.scans.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return nil, false
	}
	return scan, true
}

func (h *ScanHandler) GetScan(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ScanDetailResponse{
		NutritionScan: scan,
		DailyValues:   nutrition.DailyValues(scan.Facts().Summary),
	})
}

func (h *ScanHandler) DeleteScan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan ID"})
		return
	}
	if err := h.scans.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShareCard renders the scan as a PNG image.
func (h *ScanHandler) ShareCard(c *gin.Context) {
	scan, ok := h.loadScan(c)
	if !ok {
		return
	}
	data, err := h.cards.Render(c.Request.Context(), scan)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	name := "gizikita-" + strings.ReplaceAll(scan.ID.String(), "-", "")[:8] + ".png"
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "image/png", data)
}
