package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/admin-api/internal/bulkops/model"
)

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorResponse creates an error response.
func errorResponse(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(statusCode, resp)
}

// notFoundResponse creates a 404 error response.
func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, "NOT_FOUND", message, http.StatusNotFound)
}

// validationFailureResponse creates a 400 response carrying the full list of
// violations so the submission form can render them inline.
func validationFailureResponse(c *gin.Context, validationErr *model.ValidationError) {
	resp := model.ValidationFailureResponse{}
	resp.Error.Code = "VALIDATION_FAILED"
	resp.Error.Message = "bulk operation validation failed"
	resp.Error.Violations = validationErr.Violations
	c.JSON(http.StatusBadRequest, resp)
}
