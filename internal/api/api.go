package api

import (
	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/service"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth     middleware.TokenValidator
	Images   service.IImageService
	Analysis service.IAnalysisService
	Review   service.IReviewService
	Scans    service.IScanService
	Recap    service.IRecapService
	Exporter service.IExporter
	Cards    service.IShareCardRenderer
	Chat     service.IChatService
	Health   map[string]HealthChecker
}

// SetupAPI registers /health and the /api/v1 routes on router. The upload
// route is only served when an image store is configured.
func SetupAPI(router *gin.Engine, svc Services, log *logger.Logger) {
	NewHealthHandler(svc.Health).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	{
		if svc.Images != nil {
			NewUploadHandler(svc.Images, svc.Auth, log).RegisterRoutes(v1)
		}
		NewAnalyzeHandler(svc.Analysis, svc.Review, svc.Auth, log).RegisterRoutes(v1)
		NewDraftHandler(svc.Review, svc.Auth, log).RegisterRoutes(v1)
		NewScanHandler(svc.Scans, svc.Exporter, svc.Cards, svc.Auth, log).RegisterRoutes(v1)
		NewPublicHandler(svc.Scans, svc.Recap, log).RegisterRoutes(v1)
		NewChatHandler(svc.Chat, log).RegisterRoutes(v1)
	}
}
