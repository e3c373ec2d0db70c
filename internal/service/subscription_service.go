package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

type subscriptionStore interface {
	Create(ctx context.Context, sub *models.Subscription) error
}

type snapshotInvalidator interface {
	InvalidateSubscriptions(ctx context.Context)
}

// SubscriptionService registers newsletter subscribers.
type SubscriptionService struct {
	repo      subscriptionStore
	snapshots snapshotInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(repo subscriptionStore, snapshots snapshotInvalidator, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, snapshots: snapshots, validator: validate, logger: logger}
}

// Subscribe creates a subscription. The payload is normalized before
// validation so padded or mixed-case emails pass the email check. A duplicate
// email surfaces as CONFLICT.
func (s *SubscriptionService) Subscribe(ctx context.Context, req dto.CreateSubscriptionRequest) (*models.Subscription, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.CategoryFilter = normalizeFilter(req.CategoryFilter)
	req.LocationFilter = normalizeFilter(req.LocationFilter)
	req.KeywordFilter = normalizeFilter(req.KeywordFilter)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription payload")
	}

	sub := &models.Subscription{
		Email:          req.Email,
		CategoryFilter: req.CategoryFilter,
		LocationFilter: req.LocationFilter,
		KeywordFilter:  req.KeywordFilter,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		// FromError keeps typed errors intact, so a CONFLICT from the
		// repository reaches the handler unchanged.
		return nil, appErrors.FromError(err)
	}

	if s.snapshots != nil {
		s.snapshots.InvalidateSubscriptions(ctx)
	}

	s.logger.Info("subscription created", zap.String("subscription_id", sub.ID))
	return sub, nil
}

// normalizeFilter trims the filter and collapses empty or "all" to absent.
func normalizeFilter(filter *string) *string {
	if filter == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*filter)
	if trimmed == "" || strings.EqualFold(trimmed, models.FilterAny) {
		return nil
	}
	return &trimmed
}
