// Package router provides directory module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brightclass/admin-api/internal/directory/handler"
	"github.com/brightclass/admin-api/internal/directory/repository"
	"github.com/brightclass/admin-api/internal/directory/service"
)

// RegisterRoutes registers directory module routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
}
