package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/response"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/token"
)

type moderationService interface {
	Redeem(ctx context.Context, rawToken string) (*models.Event, token.Action, error)
}

// ModerationHandler exposes the one-click moderation endpoint backing the
// links embedded in moderation emails. The bearer needs no session; the
// token itself is the authorization.
type ModerationHandler struct {
	service    moderationService
	confirmURL string
}

// NewModerationHandler builds a new handler. confirmURL is the absolute page
// an approving moderator is redirected to.
func NewModerationHandler(service moderationService, confirmURL string) *ModerationHandler {
	return &ModerationHandler{service: service, confirmURL: confirmURL}
}

// Moderate godoc
// @Summary Redeem a moderation capability link
// @Tags Moderation
// @Param token query string true "Signed capability token"
// @Success 200 {string} string "rejection confirmation"
// @Success 302 {string} string "redirect to approval confirmation page"
// @Failure 400 {object} response.Envelope
// @Router /moderate [get]
func (h *ModerationHandler) Moderate(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing token"))
		return
	}

	event, action, err := h.service.Redeem(c.Request.Context(), rawToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	if action == token.ActionApprove {
		c.Redirect(http.StatusFound, h.confirmURL+"?title="+url.QueryEscape(event.Title))
		return
	}
	c.String(http.StatusOK, "The event %q has been rejected. The organizer will not be notified.", event.Title)
}
