package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/service"
)

// UploadHandler stores scan photos before analysis.
type UploadHandler struct {
	images service.IImageService
	auth   middleware.TokenValidator
	log    *logger.Logger
}

func NewUploadHandler(images service.IImageService, auth middleware.TokenValidator, log *logger.Logger) *UploadHandler {
	return &UploadHandler{images: images, auth: auth, log: log.WithComponent("api.upload")}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/uploads", middleware.AuthMiddleware(h.auth), h.Upload)
}

// Upload accepts a multipart "image" field and answers with its public URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
		return
	}
	if header.Size > service.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be at most 10MB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image could not be read"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image could not be read"})
		return
	}

	url, err := h.images.UploadScanImage(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image_url": url})
}
