package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/dto"
	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
	"github.com/shivanmeymo/swed-event-finder-sub000/pkg/mailer"
)

type retentionProfileStore interface {
	FindWarningCandidates(ctx context.Context, cutoff time.Time) ([]models.Profile, error)
	FindDeletionCandidates(ctx context.Context, cutoff time.Time) ([]models.Profile, error)
	MarkWarningSent(ctx context.Context, id string, sentAt time.Time) error
	ExtendRetention(ctx context.Context, id string, extendedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type retentionEventStore interface {
	DeleteByOrganizer(ctx context.Context, organizerID string) (int64, error)
}

type subscriptionEraser interface {
	DeleteByEmail(ctx context.Context, email string) error
}

type identityDeleter interface {
	DeleteIdentity(ctx context.Context, accountID string) error
}

// RetentionServiceConfig defines the inactivity windows.
type RetentionServiceConfig struct {
	WarnAfter   time.Duration
	DeleteAfter time.Duration
	SendTimeout time.Duration
}

// RetentionService runs the two-phase data-retention batch: warn accounts
// approaching the deadline, then hard-delete accounts past it. One account's
// failure never aborts the batch; a failed candidate query aborts only its
// own phase.
type RetentionService struct {
	profiles    retentionProfileStore
	events      retentionEventStore
	subs        subscriptionEraser
	identity    identityDeleter
	mail        Mailer
	metrics     *MetricsService
	logger      *zap.Logger
	warnAfter   time.Duration
	deleteAfter time.Duration
	sendTimeout time.Duration
	baseURL     string
	now         func() time.Time
}

// NewRetentionService constructs the service.
func NewRetentionService(profiles retentionProfileStore, events retentionEventStore, subs subscriptionEraser, identity identityDeleter, mail Mailer, metrics *MetricsService, logger *zap.Logger, baseURL string, cfg RetentionServiceConfig) *RetentionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WarnAfter <= 0 {
		cfg.WarnAfter = 11 * 30 * 24 * time.Hour
	}
	if cfg.DeleteAfter <= 0 {
		cfg.DeleteAfter = 12 * 30 * 24 * time.Hour
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &RetentionService{
		profiles:    profiles,
		events:      events,
		subs:        subs,
		identity:    identity,
		mail:        mail,
		metrics:     metrics,
		logger:      logger,
		warnAfter:   cfg.WarnAfter,
		deleteAfter: cfg.DeleteAfter,
		sendTimeout: cfg.SendTimeout,
		baseURL:     baseURL,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RetentionService) WithClock(now func() time.Time) *RetentionService {
	s.now = now
	return s
}

// Run executes one batch: warn phase, then delete phase.
func (s *RetentionService) Run(ctx context.Context) dto.RetentionSummary {
	summary := dto.RetentionSummary{}
	now := s.now().UTC()

	warnCandidates, err := s.profiles.FindWarningCandidates(ctx, now.Add(-s.warnAfter))
	if err != nil {
		s.logger.Error("warning candidate query failed", zap.Error(err))
		summary.Errors++
	} else {
		for _, profile := range warnCandidates {
			if err := s.sendWarning(ctx, profile, now); err != nil {
				s.logger.Warn("retention warning failed",
					zap.String("account_id", profile.ID),
					zap.Error(err),
				)
				summary.Errors++
				continue
			}
			summary.Warned++
		}
	}

	deleteCandidates, err := s.profiles.FindDeletionCandidates(ctx, now.Add(-s.deleteAfter))
	if err != nil {
		s.logger.Error("deletion candidate query failed", zap.Error(err))
		summary.Errors++
	} else {
		for _, profile := range deleteCandidates {
			if err := s.deleteAccount(ctx, profile); err != nil {
				s.logger.Warn("account deletion failed",
					zap.String("account_id", profile.ID),
					zap.Error(err),
				)
				summary.Errors++
				continue
			}
			summary.Deleted++
		}
	}

	s.metrics.RecordRetentionRun(summary.Warned, summary.Deleted, summary.Errors)
	s.logger.Info("retention batch finished",
		zap.Int("warned", summary.Warned),
		zap.Int("deleted", summary.Deleted),
		zap.Int("errors", summary.Errors),
	)
	return summary
}

// Extend resets the retention baseline for one additional year and clears
// any pending warning. Idempotent.
func (s *RetentionService) Extend(ctx context.Context, accountID string) error {
	parsed, err := uuid.Parse(accountID)
	if err != nil || parsed.Version() != 4 {
		return appErrors.Clone(appErrors.ErrValidation, "malformed account id")
	}

	if err := s.profiles.ExtendRetention(ctx, accountID, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend retention")
	}

	s.logger.Info("retention extended", zap.String("account_id", accountID))
	return nil
}

// sendWarning emails the account and records warning_sent_at on success. The
// extend link carries the bare account id; extension only preserves data, so
// the link is not signed.
func (s *RetentionService) sendWarning(ctx context.Context, profile models.Profile, now time.Time) error {
	if s.mail == nil {
		return fmt.Errorf("mail transport unavailable")
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	deleteAt := profile.RetentionBaseline().Add(s.deleteAfter)
	msg := mailer.Message{
		To:      profile.Email,
		Subject: "Your account is scheduled for deletion",
		Body: fmt.Sprintf("Hi %s,\n\nYour account has been inactive for a while and will be deleted on %s together with all your events.\n\nTo keep your account for another year, click:\n%s/extend?user_id=%s\n",
			profile.DisplayName, deleteAt.Format("2 January 2006"), s.baseURL, profile.ID),
	}
	if err := s.mail.Send(sendCtx, msg); err != nil {
		return err
	}

	if err := s.profiles.MarkWarningSent(ctx, profile.ID, now); err != nil {
		// The warning went out; a failed mark means one extra warning next
		// run, not a lost account.
		s.logger.Warn("failed to mark warning sent",
			zap.String("account_id", profile.ID),
			zap.Error(err),
		)
	}
	return nil
}

// deleteAccount cascades events → subscription → profile → identity, in that
// order. There is no compensating transaction; a mid-cascade failure leaves a
// partial delete that the next batch run picks up again.
func (s *RetentionService) deleteAccount(ctx context.Context, profile models.Profile) error {
	removed, err := s.events.DeleteByOrganizer(ctx, profile.ID)
	if err != nil {
		return fmt.Errorf("delete events: %w", err)
	}

	if s.subs != nil {
		if err := s.subs.DeleteByEmail(ctx, profile.Email); err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
	}

	if err := s.profiles.Delete(ctx, profile.ID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if s.identity != nil {
		if err := s.identity.DeleteIdentity(ctx, profile.ID); err != nil {
			return fmt.Errorf("delete identity: %w", err)
		}
	}

	s.logger.Info("account deleted",
		zap.String("account_id", profile.ID),
		zap.Int64("events_removed", removed),
	)
	return nil
}
