package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
)

const eventColumns = `id, title, description, category, location, venue_address, starts_at, ends_at, organizer_id, organizer_email, price_cents, currency, is_free, image_url, approval_state, created_at, updated_at`

// EventRepository provides database access for event listings.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists a new event. The id is generated when absent and the
// approval state always starts PENDING.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.ApprovalState = models.ApprovalPending

	const query = `INSERT INTO events (id, title, description, category, location, venue_address, starts_at, ends_at, organizer_id, organizer_email, price_cents, currency, is_free, image_url, approval_state, created_at, updated_at)
VALUES (:id, :title, :description, :category, :location, :venue_address, :starts_at, :ends_at, :organizer_id, :organizer_email, :price_cents, :currency, :is_free, :image_url, :approval_state, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// FindByID returns an event by identifier.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 LIMIT 1`, eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// List returns events matching the filter with total count.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	baseQuery := `FROM events WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.State != nil {
		conditions = append(conditions, fmt.Sprintf("approval_state = $%d", len(args)+1))
		args = append(args, string(*filter.State))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Category))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`, eventColumns, baseQuery, pageSize, offset)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	return events, total, nil
}

// UpdateApprovalState transitions the moderation state. Setting the same
// state twice succeeds; the store does not enforce only-from-pending.
func (r *EventRepository) UpdateApprovalState(ctx context.Context, id string, state models.ApprovalState) error {
	const query = `UPDATE events SET approval_state = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, string(state), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update approval state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update approval state: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a single event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByOrganizer removes every event owned by the account. Used by the
// retention cascade.
func (r *EventRepository) DeleteByOrganizer(ctx context.Context, organizerID string) (int64, error) {
	const query = `DELETE FROM events WHERE organizer_id = $1`
	result, err := r.db.ExecContext(ctx, query, organizerID)
	if err != nil {
		return 0, fmt.Errorf("delete events by organizer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete events by organizer: %w", err)
	}
	return affected, nil
}
