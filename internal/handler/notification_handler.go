package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/service"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/response"
)

type eventReader interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

type subscriberNotifier interface {
	NotifyEventSubscribers(ctx context.Context, event *models.Event) (service.DispatchSummary, error)
}

// NotificationHandler exposes the manual notification trigger.
type NotificationHandler struct {
	events   eventReader
	notifier subscriberNotifier
}

// NewNotificationHandler builds a new handler.
func NewNotificationHandler(events eventReader, notifier subscriberNotifier) *NotificationHandler {
	return &NotificationHandler{events: events, notifier: notifier}
}

// Notify godoc
// @Summary Run the subscriber notification round for one approved event
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.NotifyRequest true "Event reference"
// @Success 200 {object} response.Envelope
// @Router /notify [post]
func (h *NotificationHandler) Notify(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notify payload"))
		return
	}
	if req.EventID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "event_id is required"))
		return
	}

	event, err := h.events.Get(c.Request.Context(), req.EventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if event.ApprovalState != models.ApprovalApproved {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "event is not approved"))
		return
	}

	summary, err := h.notifier.NotifyEventSubscribers(c.Request.Context(), event)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.NotifyResponse{
		Success:       true,
		NotifiedCount: summary.Delivered,
		FailedCount:   summary.Failed,
	}, nil)
}
