// Package handler provides HTTP handlers for bulk-operation endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
	"github.com/brightclass/admin-api/internal/bulkops/service"
	"github.com/brightclass/admin-api/internal/middleware"
)

// Handler handles HTTP requests for bulk-operation endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new bulk-operation handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Submit handles POST /bulk-operations requests. Accepted operations return
// 202 with the created job; validation failures return 400 with the full
// violation list and create nothing.
func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			validationFailureResponse(c, validationErr)
			return
		}
		h.logger.Errorw("Submit failed", "kind", req.Kind, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// ListActive handles GET /bulk-operations requests.
func (h *Handler) ListActive(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ActiveJobs(middleware.TenantID(c)))
}

// GetJob handles GET /bulk-operations/:id requests.
func (h *Handler) GetJob(c *gin.Context) {
	resp, err := h.service.GetJob(c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			notFoundResponse(c, "job not found")
			return
		}
		h.logger.Errorw("GetJob failed", "job_id", c.Param("id"), "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel handles DELETE /bulk-operations/:id requests. Cancellation is
// best-effort: 204 is returned whether or not it took effect before the job
// completed.
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			notFoundResponse(c, "job not found")
			return
		}
		h.logger.Errorw("Cancel failed", "job_id", c.Param("id"), "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetResult handles GET /bulk-operations/:id/result requests.
func (h *Handler) GetResult(c *gin.Context) {
	resp, err := h.service.GetResult(c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			notFoundResponse(c, "job not found")
			return
		}
		if errors.Is(err, model.ErrResultNotReady) {
			notFoundResponse(c, "result not ready")
			return
		}
		h.logger.Errorw("GetResult failed", "job_id", c.Param("id"), "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Download handles GET /bulk-operations/:id/download requests, streaming the
// export file for export-kind jobs.
func (h *Handler) Download(c *gin.Context) {
	export, err := h.service.Download(c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrJobNotFound) || errors.Is(err, model.ErrNoExport) {
			notFoundResponse(c, "no export file for this job")
			return
		}
		h.logger.Errorw("Download failed", "job_id", c.Param("id"), "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

// ListResults handles GET /bulk-operations/results requests.
func (h *Handler) ListResults(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CompletedResults(middleware.TenantID(c)))
}

// ClearResults handles DELETE /bulk-operations/results requests.
func (h *Handler) ClearResults(c *gin.Context) {
	h.service.ClearCompleted(middleware.TenantID(c))
	c.Status(http.StatusNoContent)
}
