package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/response"
)

type retentionService interface {
	Run(ctx context.Context) dto.RetentionSummary
	Extend(ctx context.Context, accountID string) error
}

// RetentionHandler exposes the retention batch trigger and the one-click
// extension endpoint linked from warning emails.
type RetentionHandler struct {
	service retentionService
}

// NewRetentionHandler builds a new handler.
func NewRetentionHandler(service retentionService) *RetentionHandler {
	return &RetentionHandler{service: service}
}

// RunBatch godoc
// @Summary Run one retention batch (warn, then delete)
// @Tags Retention
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tasks/retention [post]
func (h *RetentionHandler) RunBatch(c *gin.Context) {
	summary := h.service.Run(c.Request.Context())
	response.JSON(c, http.StatusOK, summary, nil)
}

// Extend godoc
// @Summary Extend account retention by one year
// @Tags Retention
// @Param user_id query string true "Account id (UUID v4)"
// @Success 200 {string} string "confirmation page"
// @Failure 400 {object} response.Envelope
// @Router /extend [get]
func (h *RetentionHandler) Extend(c *gin.Context) {
	accountID := c.Query("user_id")
	if accountID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing user_id"))
		return
	}

	if err := h.service.Extend(c.Request.Context(), accountID); err != nil {
		response.Error(c, err)
		return
	}

	c.String(http.StatusOK, "Thanks! Your account has been extended for another year.")
}
