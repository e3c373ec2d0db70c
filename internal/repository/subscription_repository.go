package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

const pgUniqueViolation = "23505"

// SubscriptionRepository provides persistence for newsletter subscriptions.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates the repository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a subscription. A duplicate email surfaces as a CONFLICT
// error so callers can distinguish it from a generic failure.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO subscriptions (id, email, category_filter, location_filter, keyword_filter, created_at)
VALUES (:id, :email, :category_filter, :location_filter, :keyword_filter, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "email is already subscribed")
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// ListAll returns every subscription. The matching engine filters in memory;
// the subscriber base is small enough that predicate pushdown buys nothing.
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]models.Subscription, error) {
	const query = `SELECT id, email, category_filter, location_filter, keyword_filter, created_at FROM subscriptions ORDER BY created_at ASC`
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// DeleteByEmail removes a subscriber, used when an account is erased.
func (r *SubscriptionRepository) DeleteByEmail(ctx context.Context, email string) error {
	const query = `DELETE FROM subscriptions WHERE email = $1`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("delete subscription by email: %w", err)
	}
	return nil
}
