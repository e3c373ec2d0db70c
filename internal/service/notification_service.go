package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/mailer"
)

// subscriptionsCacheKey holds the subscriber snapshot between rounds.
const subscriptionsCacheKey = "subscriptions:snapshot"

// Mailer abstracts the outbound mail transport.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type subscriptionLister interface {
	ListAll(ctx context.Context) ([]models.Subscription, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DispatchSummary reports one fan-out batch. Delivered counts transport
// accepted/queued responses, not end-to-end confirmations.
type DispatchSummary struct {
	Attempted int
	Delivered int
	Failed    int
}

// NotificationServiceConfig tunes fan-out behaviour.
type NotificationServiceConfig struct {
	SendTimeout time.Duration
	CacheTTL    time.Duration
}

// NotificationService matches subscribers to events and fans out emails.
// Delivery is best-effort and at-most-once: a failed send is logged and
// counted, never retried, and never fails the batch.
type NotificationService struct {
	subs        subscriptionLister
	cache       snapshotCache
	mail        Mailer
	metrics     *MetricsService
	logger      *zap.Logger
	sendTimeout time.Duration
	cacheTTL    time.Duration
}

// NewNotificationService constructs the service. The cache is optional.
func NewNotificationService(subs subscriptionLister, cache snapshotCache, mail Mailer, metrics *MetricsService, logger *zap.Logger, cfg NotificationServiceConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &NotificationService{
		subs:        subs,
		cache:       cache,
		mail:        mail,
		metrics:     metrics,
		logger:      logger,
		sendTimeout: cfg.SendTimeout,
		cacheTTL:    cfg.CacheTTL,
	}
}

// Dispatch sends one message per recipient. All sends run concurrently, each
// under its own timeout, so one slow recipient cannot starve the rest.
func (s *NotificationService) Dispatch(ctx context.Context, recipients []string, render func(recipient string) mailer.Message) DispatchSummary {
	summary := DispatchSummary{Attempted: len(recipients)}
	if len(recipients) == 0 || s.mail == nil {
		return summary
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
			defer cancel()

			err := s.mail.Send(sendCtx, render(recipient))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				s.logger.Warn("notification send failed",
					zap.String("recipient", recipient),
					zap.Error(err),
				)
				return
			}
			summary.Delivered++
		}(recipient)
	}
	wg.Wait()

	s.metrics.RecordNotificationResults(summary.Delivered, summary.Failed)
	return summary
}

// NotifyEventSubscribers runs the matching engine over the subscriber base
// and fans out one email per match. Returns the dispatch summary.
func (s *NotificationService) NotifyEventSubscribers(ctx context.Context, event *models.Event) (DispatchSummary, error) {
	subs, err := s.loadSubscriptions(ctx)
	if err != nil {
		return DispatchSummary{}, err
	}

	matched := MatchSubscriptions(event, subs)
	recipients := make([]string, 0, len(matched))
	for _, sub := range matched {
		recipients = append(recipients, sub.Email)
	}

	summary := s.Dispatch(ctx, recipients, func(recipient string) mailer.Message {
		return renderSubscriberNotification(recipient, event)
	})

	s.logger.Info("subscriber notification round finished",
		zap.String("event_id", event.ID),
		zap.Int("matched", len(matched)),
		zap.Int("delivered", summary.Delivered),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// NotifyOrganizerApproval sends the organizer confirmation for an approved
// event. Best-effort; the caller decides whether to log or aggregate.
func (s *NotificationService) NotifyOrganizerApproval(ctx context.Context, event *models.Event) error {
	if s.mail == nil {
		return nil
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	msg := mailer.Message{
		To:      event.OrganizerEmail,
		Subject: fmt.Sprintf("Your event %q is now live", event.Title),
		Body: fmt.Sprintf("Hi,\n\nGood news: %q has been approved and is now visible to visitors.\n\nStarts: %s\nLocation: %s\n",
			event.Title, event.StartsAt.Format(time.RFC1123), event.Location),
	}
	if err := s.mail.Send(sendCtx, msg); err != nil {
		s.metrics.RecordNotificationResults(0, 1)
		return err
	}
	s.metrics.RecordNotificationResults(1, 0)
	return nil
}

// InvalidateSubscriptions drops the cached subscriber snapshot. Called when
// a new subscription is created.
func (s *NotificationService) InvalidateSubscriptions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, subscriptionsCacheKey); err != nil {
		s.logger.Warn("subscription cache invalidation failed", zap.Error(err))
	}
}

func (s *NotificationService) loadSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	if s.cache != nil {
		var cached []models.Subscription
		if err := s.cache.Get(ctx, subscriptionsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	subs, err := s.subs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, subscriptionsCacheKey, subs, s.cacheTTL); err != nil {
			s.logger.Warn("subscription cache refresh failed", zap.Error(err))
		}
	}
	return subs, nil
}

func renderSubscriberNotification(recipient string, event *models.Event) mailer.Message {
	price := "Free"
	if !event.IsFree && event.PriceCents > 0 {
		price = fmt.Sprintf("%.2f %s", float64(event.PriceCents)/100, event.Currency)
	}
	return mailer.Message{
		To:      recipient,
		Subject: fmt.Sprintf("New event near you: %s", event.Title),
		Body: fmt.Sprintf("%s\n\n%s\n\nCategory: %s\nLocation: %s\nStarts: %s\nPrice: %s\n",
			event.Title, event.Description, event.Category, event.Location,
			event.StartsAt.Format(time.RFC1123), price),
	}
}
