// Package health exposes the service liveness endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brightclass/admin-api/internal/database/database"
)

const checkTimeout = 5 * time.Second

// Handler answers health check requests.
type Handler struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a health handler backed by the given connection.
func New(db *gorm.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Response is the health check payload.
type Response struct {
	Status string `json:"status"`
}

// Check handles GET /health. The service is healthy when the database
// answers a ping within the check timeout.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: "ok"})
}
