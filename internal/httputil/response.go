// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cartkeeper/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Message    string            `json:"message,omitempty"`
	Violations validation.Errors `json:"violations,omitempty"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	// Map domain errors to HTTP status codes
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		errorResponse = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}
		var violations validation.Errors
		if errors.As(err, &violations) {
			errorResponse.Violations = violations
		}

	case apperrors.Is(err, apperrors.ErrConfiguration),
		apperrors.Is(err, apperrors.ErrTransientStore):
		statusCode = http.StatusServiceUnavailable
		errorResponse = ErrorResponse{
			Error:   "store_unavailable",
			Message: "The backing store is temporarily unavailable",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}

	c.JSON(http.StatusBadRequest, errorResponse)
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation
// errors. Field-level violations are enumerated in the response body when available.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	var violations validation.Errors
	if errors.As(err, &violations) {
		errorResponse.Violations = violations
	}

	c.JSON(http.StatusUnprocessableEntity, errorResponse)
}
