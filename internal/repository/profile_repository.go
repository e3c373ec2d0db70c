package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
)

const profileColumns = `id, email, display_name, created_at, last_activity_at, warning_sent_at, retention_extended_at`

// The retention baseline is the later of last activity and extension; an
// extension pushes both warning and deletion out by a full window.
const retentionBaseline = `GREATEST(last_activity_at, COALESCE(retention_extended_at, 'epoch'::timestamptz))`

// ProfileRepository provides database access for organizer accounts.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID returns a profile by identifier.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1 LIMIT 1`, profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

// FindWarningCandidates returns accounts whose baseline crossed the warning
// threshold and that have not been warned yet.
func (r *ProfileRepository) FindWarningCandidates(ctx context.Context, cutoff time.Time) ([]models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s <= $1 AND warning_sent_at IS NULL ORDER BY last_activity_at ASC`, profileColumns, retentionBaseline)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, cutoff); err != nil {
		return nil, fmt.Errorf("find warning candidates: %w", err)
	}
	return profiles, nil
}

// FindDeletionCandidates returns accounts past the deletion threshold
// without a qualifying extension.
func (r *ProfileRepository) FindDeletionCandidates(ctx context.Context, cutoff time.Time) ([]models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s <= $1 ORDER BY last_activity_at ASC`, profileColumns, retentionBaseline)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, cutoff); err != nil {
		return nil, fmt.Errorf("find deletion candidates: %w", err)
	}
	return profiles, nil
}

// MarkWarningSent records that the retention warning went out.
func (r *ProfileRepository) MarkWarningSent(ctx context.Context, id string, sentAt time.Time) error {
	const query = `UPDATE profiles SET warning_sent_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, sentAt); err != nil {
		return fmt.Errorf("mark warning sent: %w", err)
	}
	return nil
}

// ExtendRetention resets the retention baseline and clears any pending
// warning. Repeated calls simply re-extend.
func (r *ProfileRepository) ExtendRetention(ctx context.Context, id string, extendedAt time.Time) error {
	const query = `UPDATE profiles SET retention_extended_at = $2, warning_sent_at = NULL WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, extendedAt)
	if err != nil {
		return fmt.Errorf("extend retention: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("extend retention: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the profile row. Part of the account-deletion cascade.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM profiles WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
