package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/mailer"
)

type mailerStub struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (m *mailerStub) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[msg.To]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailerStub) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipients := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		recipients = append(recipients, msg.To)
	}
	return recipients
}

type subscriptionListerStub struct {
	subs []models.Subscription
	err  error
}

func (s *subscriptionListerStub) ListAll(ctx context.Context) ([]models.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.subs, nil
}

type snapshotCacheStub struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	deletes int
}

func (c *snapshotCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return appErrors.ErrCacheMiss
}

func (c *snapshotCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *snapshotCacheStub) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	return nil
}

func TestDispatchToleratesPartialFailure(t *testing.T) {
	mail := &mailerStub{failFor: map[string]error{"r3@example.com": fmt.Errorf("mailbox unavailable")}}
	svc := NewNotificationService(&subscriptionListerStub{}, nil, mail, nil, nil, NotificationServiceConfig{})

	recipients := []string{"r1@example.com", "r2@example.com", "r3@example.com", "r4@example.com", "r5@example.com"}
	summary := svc.Dispatch(context.Background(), recipients, func(recipient string) mailer.Message {
		return mailer.Message{To: recipient, Subject: "hello"}
	})

	assert.Equal(t, 5, summary.Attempted)
	assert.Equal(t, 4, summary.Delivered)
	assert.Equal(t, 1, summary.Failed)
	assert.NotContains(t, mail.sentTo(), "r3@example.com")
}

func TestDispatchEmptyRecipients(t *testing.T) {
	svc := NewNotificationService(&subscriptionListerStub{}, nil, &mailerStub{}, nil, nil, NotificationServiceConfig{})
	summary := svc.Dispatch(context.Background(), nil, func(recipient string) mailer.Message {
		return mailer.Message{To: recipient}
	})
	assert.Equal(t, DispatchSummary{}, summary)
}

func TestNotifyEventSubscribersMatchesAndSends(t *testing.T) {
	lister := &subscriptionListerStub{subs: []models.Subscription{
		{ID: "music", Email: "music@example.com", CategoryFilter: strFilter("Music")},
		{ID: "sports", Email: "sports@example.com", CategoryFilter: strFilter("Sports")},
	}}
	mail := &mailerStub{}
	svc := NewNotificationService(lister, nil, mail, nil, nil, NotificationServiceConfig{})

	event := matchTestEvent()
	summary, err := svc.NotifyEventSubscribers(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.Delivered)
	assert.Equal(t, []string{"music@example.com"}, mail.sentTo())
}

func TestNotifyEventSubscribersStoreFailure(t *testing.T) {
	lister := &subscriptionListerStub{err: fmt.Errorf("connection refused")}
	svc := NewNotificationService(lister, nil, &mailerStub{}, nil, nil, NotificationServiceConfig{})

	_, err := svc.NotifyEventSubscribers(context.Background(), matchTestEvent())
	require.Error(t, err)
}

func TestNotifyEventSubscribersFallsBackOnCacheMiss(t *testing.T) {
	cache := &snapshotCacheStub{}
	lister := &subscriptionListerStub{subs: []models.Subscription{{ID: "b", Email: "b@example.com"}}}
	mail := &mailerStub{}
	svc := NewNotificationService(lister, cache, mail, nil, nil, NotificationServiceConfig{})

	summary, err := svc.NotifyEventSubscribers(context.Background(), matchTestEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Delivered)
	assert.Equal(t, 1, cache.gets)
}

func TestInvalidateSubscriptions(t *testing.T) {
	cache := &snapshotCacheStub{}
	svc := NewNotificationService(&subscriptionListerStub{}, cache, &mailerStub{}, nil, nil, NotificationServiceConfig{})

	svc.InvalidateSubscriptions(context.Background())
	assert.Equal(t, 1, cache.deletes)
}

func TestNotifyOrganizerApproval(t *testing.T) {
	mail := &mailerStub{}
	svc := NewNotificationService(&subscriptionListerStub{}, nil, mail, nil, nil, NotificationServiceConfig{})

	event := matchTestEvent()
	event.OrganizerEmail = "organizer@example.com"
	require.NoError(t, svc.NotifyOrganizerApproval(context.Background(), event))
	assert.Equal(t, []string{"organizer@example.com"}, mail.sentTo())
}
