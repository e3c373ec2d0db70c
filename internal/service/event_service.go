package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/mailer"
)

type eventStore interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	Delete(ctx context.Context, id string) error
}

type moderationLinker interface {
	ModerationLinks(eventID string) (approveURL, rejectURL string, err error)
}

// EventService handles event submission and the read surface the pipeline
// needs. Submission is the issuance site for moderation capability links.
type EventService struct {
	repo           eventStore
	links          moderationLinker
	mail           Mailer
	validator      *validator.Validate
	logger         *zap.Logger
	moderatorEmail string
	sendTimeout    time.Duration
}

// NewEventService constructs the service.
func NewEventService(repo eventStore, links moderationLinker, mail Mailer, validate *validator.Validate, logger *zap.Logger, moderatorEmail string, sendTimeout time.Duration) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &EventService{
		repo:           repo,
		links:          links,
		mail:           mail,
		validator:      validate,
		logger:         logger,
		moderatorEmail: moderatorEmail,
		sendTimeout:    sendTimeout,
	}
}

// Submit validates and persists a new PENDING event, then emails the
// moderator a pair of one-click approve/reject links. The email is
// best-effort; a transport failure never fails the submission.
func (s *EventService) Submit(ctx context.Context, req dto.SubmitEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "event must end after it starts")
	}

	currency := req.Currency
	if currency == "" {
		currency = "SEK"
	}

	event := &models.Event{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Location:       req.Location,
		VenueAddress:   req.VenueAddress,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		OrganizerID:    req.OrganizerID,
		OrganizerEmail: req.OrganizerEmail,
		PriceCents:     req.PriceCents,
		Currency:       currency,
		IsFree:         req.IsFree || req.PriceCents == 0,
		ImageURL:       req.ImageURL,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	if err := s.sendModerationRequest(ctx, event); err != nil {
		s.logger.Warn("moderation email failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}

	return event, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// ListApproved returns publicly visible events.
func (s *EventService) ListApproved(ctx context.Context, category string, page, pageSize int) ([]models.Event, *models.Pagination, error) {
	state := models.ApprovalApproved
	events, total, err := s.repo.List(ctx, models.EventFilter{
		State:    &state,
		Category: category,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, models.NewPagination(page, pageSize, total), nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

func (s *EventService) sendModerationRequest(ctx context.Context, event *models.Event) error {
	if s.mail == nil || s.links == nil || s.moderatorEmail == "" {
		return nil
	}

	approveURL, rejectURL, err := s.links.ModerationLinks(event.ID)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	msg := mailer.Message{
		To:      s.moderatorEmail,
		Subject: fmt.Sprintf("New event awaiting review: %s", event.Title),
		Body: fmt.Sprintf("%s\n\n%s\n\nCategory: %s\nLocation: %s\nStarts: %s\nOrganizer: %s\n\nApprove: %s\nReject: %s\n",
			event.Title, event.Description, event.Category, event.Location,
			event.StartsAt.Format(time.RFC1123), event.OrganizerEmail,
			approveURL, rejectURL),
	}
	return s.mail.Send(sendCtx, msg)
}
