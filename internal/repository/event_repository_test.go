package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
)

func newEventRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventRows(events ...models.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "category", "location", "venue_address",
		"starts_at", "ends_at", "organizer_id", "organizer_email",
		"price_cents", "currency", "is_free", "image_url",
		"approval_state", "created_at", "updated_at",
	})
	for _, e := range events {
		rows.AddRow(e.ID, e.Title, e.Description, e.Category, e.Location, e.VenueAddress,
			e.StartsAt, e.EndsAt, e.OrganizerID, e.OrganizerEmail,
			e.PriceCents, e.Currency, e.IsFree, e.ImageURL,
			string(e.ApprovalState), e.CreatedAt, e.UpdatedAt)
	}
	return rows
}

func TestEventRepositoryCreateForcesPendingState(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Title:          "Fika & Folkmusik",
		Category:       "music",
		Location:       "Stockholm",
		StartsAt:       time.Now().Add(48 * time.Hour),
		EndsAt:         time.Now().Add(50 * time.Hour),
		OrganizerID:    "org-1",
		OrganizerEmail: "org@example.se",
		ApprovalState:  models.ApprovalApproved,
	}
	require.NoError(t, repo.Create(context.Background(), event))

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.ApprovalPending, event.ApprovalState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 LIMIT 1").
		WithArgs("e1").
		WillReturnRows(eventRows(models.Event{
			ID: "e1", Title: "Loppis", Category: "market", Location: "Göteborg",
			StartsAt: now, EndsAt: now.Add(time.Hour),
			OrganizerID: "org-1", OrganizerEmail: "org@example.se",
			Currency: "SEK", IsFree: true, ApprovalState: models.ApprovalApproved,
			CreatedAt: now, UpdatedAt: now,
		}))

	event, err := repo.FindByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Loppis", event.Title)
	assert.Equal(t, models.ApprovalApproved, event.ApprovalState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 LIMIT 1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListFiltersByState(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE 1=1 AND approval_state = \\$1 ORDER BY starts_at ASC LIMIT 20 OFFSET 0").
		WithArgs(string(models.ApprovalApproved)).
		WillReturnRows(eventRows(models.Event{
			ID: "e1", Title: "Konsert", StartsAt: now, EndsAt: now.Add(time.Hour),
			ApprovalState: models.ApprovalApproved, CreatedAt: now, UpdatedAt: now,
		}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE 1=1 AND approval_state = $1")).
		WithArgs(string(models.ApprovalApproved)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	state := models.ApprovalApproved
	list, total, err := repo.List(context.Background(), models.EventFilter{State: &state})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateApprovalState(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET approval_state = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("e1", string(models.ApprovalApproved), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateApprovalState(context.Background(), "e1", models.ApprovalApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateApprovalStateUnknownID(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET approval_state = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("missing", string(models.ApprovalRejected), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateApprovalState(context.Background(), "missing", models.ApprovalRejected)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDeleteByOrganizer(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE organizer_id = $1")).
		WithArgs("org-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteByOrganizer(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
