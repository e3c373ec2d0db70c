package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/response"
)

type eventService interface {
	Submit(ctx context.Context, req dto.SubmitEventRequest) (*models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	ListApproved(ctx context.Context, category string, page, pageSize int) ([]models.Event, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

// EventHandler exposes event submission and the public read surface.
type EventHandler struct {
	service eventService
}

// NewEventHandler builds a new handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// Submit godoc
// @Summary Submit a new event for moderation
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body dto.SubmitEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Submit(c *gin.Context) {
	var req dto.SubmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return
	}

	event, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// List godoc
// @Summary List approved events
// @Tags Events
// @Produce json
// @Param category query string false "Category filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	events, pagination, err := h.service.ListApproved(c.Request.Context(), c.Query("category"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Get godoc
// @Summary Get a single event
// @Tags Events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Param id path string true "Event id"
// @Success 204
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
