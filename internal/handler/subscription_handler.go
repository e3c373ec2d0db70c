package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/response"
)

type subscriptionService interface {
	Subscribe(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error)
}

// SubscriptionHandler exposes newsletter signup.
type SubscriptionHandler struct {
	service subscriptionService
}

// NewSubscriptionHandler builds a new handler.
func NewSubscriptionHandler(service subscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Create godoc
// @Summary Subscribe to event notifications
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubscriptionRequest true "Subscription payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subscription payload"))
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}
