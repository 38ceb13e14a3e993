// Package http provides HTTP handlers for the cart activity API: ingestion
// of abandonment signals, client-safe record retrieval, conversion and
// forget signals, and the sweep trigger.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cartkeeper/internal/cart/http/dto"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	"github.com/allisson/cartkeeper/internal/httputil"
)

// CartHandler handles HTTP requests for cart activity tracking.
type CartHandler struct {
	activityUseCase usecase.ActivityUseCase
	sweepUseCase    usecase.SweepUseCase
	logger          *slog.Logger
}

// NewCartHandler creates a new cart handler with required dependencies.
func NewCartHandler(
	activityUseCase usecase.ActivityUseCase,
	sweepUseCase usecase.SweepUseCase,
	logger *slog.Logger,
) *CartHandler {
	return &CartHandler{
		activityUseCase: activityUseCase,
		sweepUseCase:    sweepUseCase,
		logger:          logger,
	}
}

// RecordActivityHandler ingests a cart activity report.
// POST /v1/cart-activity
// Returns 201 Created with the client-safe record.
func (h *CartHandler) RecordActivityHandler(c *gin.Context) {
	var req dto.RecordActivityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	record, err := h.activityUseCase.RecordActivity(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// GetHandler retrieves the active cart record for an email.
// GET /v1/cart-activity/:email
// Returns 200 OK with the client-safe record; terminal and unknown records
// both return 404.
func (h *CartHandler) GetHandler(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("email cannot be empty"), h.logger)
		return
	}

	record, err := h.activityUseCase.GetActiveCart(c.Request.Context(), email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordToResponse(record))
}

// MarkConvertedHandler records a purchase-completed signal for an email.
// POST /v1/cart-activity/:email/converted
// Returns 204 No Content.
func (h *CartHandler) MarkConvertedHandler(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("email cannot be empty"), h.logger)
		return
	}

	if err := h.activityUseCase.MarkConverted(c.Request.Context(), email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ForgetHandler removes the cart activity record for an email.
// DELETE /v1/cart-activity/:email
// Returns 204 No Content.
func (h *CartHandler) ForgetHandler(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("email cannot be empty"), h.logger)
		return
	}

	if err := h.activityUseCase.Forget(c.Request.Context(), email); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SweepHandler triggers one reminder sweep over all active records.
// POST /v1/sweep
// Returns 200 OK with the run counters.
func (h *CartHandler) SweepHandler(c *gin.Context) {
	result, err := h.sweepUseCase.Run(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}
