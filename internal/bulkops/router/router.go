// Package router provides bulk-operation module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/handler"
	"github.com/brightclass/admin-api/internal/bulkops/registry"
	"github.com/brightclass/admin-api/internal/bulkops/service"
)

// RegisterRoutes registers bulk-operation module routes on top of the given
// registry.
func RegisterRoutes(r *gin.Engine, reg registry.Registry, logger *zap.SugaredLogger) {
	svc := service.New(reg, logger)
	h := handler.New(svc, logger)

	r.POST("/bulk-operations", h.Submit)
	r.GET("/bulk-operations", h.ListActive)
	r.GET("/bulk-operations/results", h.ListResults)
	r.DELETE("/bulk-operations/results", h.ClearResults)
	r.GET("/bulk-operations/:id", h.GetJob)
	r.DELETE("/bulk-operations/:id", h.Cancel)
	r.GET("/bulk-operations/:id/result", h.GetResult)
	r.GET("/bulk-operations/:id/download", h.Download)
}
