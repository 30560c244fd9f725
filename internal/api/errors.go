package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/middleware"
	"github.com/gizikita/backend/internal/service"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindInput:       http.StatusBadRequest,
	service.KindValidation:  http.StatusBadRequest,
	service.KindAnalysis:    http.StatusInternalServerError,
	service.KindPersistence: http.StatusInternalServerError,
	service.KindExport:      http.StatusInternalServerError,
	service.KindRateLimit:   http.StatusTooManyRequests,
	service.KindAuth:        http.StatusUnauthorized,
	service.KindNotFound:    http.StatusNotFound,
	service.KindConflict:    http.StatusConflict,
}

// StatusFor returns the HTTP status for a service error kind.
func StatusFor(kind service.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg} for err. Only the user facing message of a
// classified error is returned; anything else becomes a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Error("unclassified error", "path", c.FullPath(), "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	status := StatusFor(svcErr.Kind)
	if status >= http.StatusInternalServerError && svcErr.Err != nil {
		log.Error("request failed",
			"path", c.FullPath(),
			"request_id", c.GetString("request_id"),
			"kind", svcErr.Kind.String(),
			"error", svcErr.Err,
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": svcErr.Message})
}

// currentUser returns the uuid set by the auth middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}
