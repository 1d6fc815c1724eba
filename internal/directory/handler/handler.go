// Package handler provides HTTP handlers for directory endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/directory/model"
	"github.com/brightclass/admin-api/internal/directory/service"
	"github.com/brightclass/admin-api/internal/middleware"
)

// Handler handles HTTP requests for directory endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new directory handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ListUsers handles GET /users requests.
func (h *Handler) ListUsers(c *gin.Context) {
	var req model.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid query parameters", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ListUsers(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidFilter) {
			errorResponse(c, "INVALID_REQUEST", "invalid filter value", http.StatusBadRequest)
			return
		}
		h.logger.Errorw("ListUsers failed", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /users/:id requests.
func (h *Handler) GetUser(c *gin.Context) {
	userID := c.Param("id")

	resp, err := h.service.GetUser(c.Request.Context(), middleware.TenantID(c), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			notFoundResponse(c, "user not found")
			return
		}
		h.logger.Errorw("GetUser failed", "user_id", userID, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}
