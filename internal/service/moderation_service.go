package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/token"
)

type moderationEventStore interface {
	FindByID(ctx context.Context, id string) (*models.Event, error)
	UpdateApprovalState(ctx context.Context, id string, state models.ApprovalState) error
}

type approvalNotifier interface {
	NotifyEventSubscribers(ctx context.Context, event *models.Event) (DispatchSummary, error)
	NotifyOrganizerApproval(ctx context.Context, event *models.Event) error
}

// ModerationService applies moderation decisions to events. The state machine
// is Pending → Approved | Rejected; both terminal states are idempotent at the
// store level and token expiry is the sole replay guard, so a double approval
// is benign.
type ModerationService struct {
	events   moderationEventStore
	notifier approvalNotifier
	signer   *token.Signer
	metrics  *MetricsService
	logger   *zap.Logger
	baseURL  string
}

// NewModerationService constructs the service. baseURL is the public origin
// used to build the capability links embedded in moderation emails.
func NewModerationService(events moderationEventStore, notifier approvalNotifier, signer *token.Signer, metrics *MetricsService, logger *zap.Logger, baseURL string) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		events:   events,
		notifier: notifier,
		signer:   signer,
		metrics:  metrics,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// Redeem verifies a capability token and applies the action it carries.
// Token errors surface unchanged so callers can distinguish expired from
// invalid links.
func (s *ModerationService) Redeem(ctx context.Context, rawToken string) (*models.Event, token.Action, error) {
	claims, err := s.signer.Verify(rawToken)
	if err != nil {
		return nil, "", err
	}

	var event *models.Event
	switch claims.Action {
	case token.ActionApprove:
		event, err = s.Approve(ctx, claims.EventID)
	case token.ActionReject:
		event, err = s.Reject(ctx, claims.EventID)
	default:
		return nil, "", appErrors.Clone(appErrors.ErrTokenInvalid, "unknown moderation action")
	}
	if err != nil {
		return nil, "", err
	}
	return event, claims.Action, nil
}

// Approve transitions the event to APPROVED. The state change is the durable
// outcome; the organizer confirmation and the subscriber round are
// best-effort and never roll it back.
func (s *ModerationService) Approve(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.applyDecision(ctx, eventID, models.ApprovalApproved)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyOrganizerApproval(ctx, event); err != nil {
			s.logger.Warn("organizer confirmation failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
		if _, err := s.notifier.NotifyEventSubscribers(ctx, event); err != nil {
			s.logger.Warn("subscriber notification round failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	return event, nil
}

// Reject transitions the event to REJECTED. No notifications are sent.
func (s *ModerationService) Reject(ctx context.Context, eventID string) (*models.Event, error) {
	return s.applyDecision(ctx, eventID, models.ApprovalRejected)
}

func (s *ModerationService) applyDecision(ctx context.Context, eventID string, state models.ApprovalState) (*models.Event, error) {
	if err := s.events.UpdateApprovalState(ctx, eventID, state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event state")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	s.metrics.RecordModerationDecision(string(stateToAction(state)))
	s.logger.Info("moderation decision applied",
		zap.String("event_id", eventID),
		zap.String("state", string(state)),
	)
	return event, nil
}

// ModerationLinks issues one approve and one reject capability URL for the
// event. Called once per moderation email sent.
func (s *ModerationService) ModerationLinks(eventID string) (approveURL, rejectURL string, err error) {
	approveToken, _, err := s.signer.Issue(token.ActionApprove, eventID)
	if err != nil {
		return "", "", fmt.Errorf("issue approve token: %w", err)
	}
	rejectToken, _, err := s.signer.Issue(token.ActionReject, eventID)
	if err != nil {
		return "", "", fmt.Errorf("issue reject token: %w", err)
	}
	return fmt.Sprintf("%s/moderate?token=%s", s.baseURL, approveToken),
		fmt.Sprintf("%s/moderate?token=%s", s.baseURL, rejectToken),
		nil
}

func stateToAction(state models.ApprovalState) token.Action {
	if state == models.ApprovalApproved {
		return token.ActionApprove
	}
	return token.ActionReject
}
