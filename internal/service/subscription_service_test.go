package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

type subscriptionStoreStub struct {
	byEmail map[string]*models.Subscription
}

func (s *subscriptionStoreStub) Create(ctx context.Context, sub *models.Subscription) error {
	if s.byEmail == nil {
		s.byEmail = map[string]*models.Subscription{}
	}
	if _, ok := s.byEmail[sub.Email]; ok {
		return appErrors.Clone(appErrors.ErrConflict, "email is already subscribed")
	}
	sub.ID = "sub-1"
	s.byEmail[sub.Email] = sub
	return nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) InvalidateSubscriptions(ctx context.Context) {
	s.calls++
}

func TestSubscribeNormalizesFilters(t *testing.T) {
	store := &subscriptionStoreStub{}
	invalidator := &invalidatorStub{}
	svc := NewSubscriptionService(store, invalidator, nil, nil)

	sub, err := svc.Subscribe(context.Background(), dto.CreateSubscriptionRequest{
		Email:          " Visitor@Example.COM ",
		CategoryFilter: strFilter("all"),
		LocationFilter: strFilter("  Stockholm  "),
		KeywordFilter:  strFilter(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "visitor@example.com", sub.Email)
	assert.Nil(t, sub.CategoryFilter, `"all" collapses to no filter`)
	assert.Nil(t, sub.KeywordFilter)
	require.NotNil(t, sub.LocationFilter)
	assert.Equal(t, "Stockholm", *sub.LocationFilter)
	assert.Equal(t, 1, invalidator.calls)
}

func TestSubscribeAcceptsPaddedEmail(t *testing.T) {
	store := &subscriptionStoreStub{}
	svc := NewSubscriptionService(store, &invalidatorStub{}, nil, nil)

	sub, err := svc.Subscribe(context.Background(), dto.CreateSubscriptionRequest{Email: "  Anna.Larsson@Example.SE  "})
	require.NoError(t, err)
	assert.Equal(t, "anna.larsson@example.se", sub.Email)
}

func TestSubscribeDuplicateEmailIsConflict(t *testing.T) {
	store := &subscriptionStoreStub{}
	svc := NewSubscriptionService(store, &invalidatorStub{}, nil, nil)

	_, err := svc.Subscribe(context.Background(), dto.CreateSubscriptionRequest{Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = svc.Subscribe(context.Background(), dto.CreateSubscriptionRequest{Email: "dup@example.com"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	svc := NewSubscriptionService(&subscriptionStoreStub{}, &invalidatorStub{}, nil, nil)

	_, err := svc.Subscribe(context.Background(), dto.CreateSubscriptionRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
