package router

import (
	"github.com/gin-gonic/gin"

	"github.com/gizikita/backend/internal/api"
	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
)

// SetupRouter builds the gin engine with the global middleware chain and
// every API route.
func SetupRouter(corsOrigins []string, svc api.Services, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		log.GinMiddleware(),
		middleware.Recovery(log),
		middleware.CORS(corsOrigins),
	)
	router.MaxMultipartMemory = 12 << 20

	api.SetupAPI(router, svc, log)
	return router
}
