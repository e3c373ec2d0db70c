package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanmeymo/swed-event-finder-sub000/internal/models"
	appErrors "github.com/shivanmeymo/swed-event-finder-sub000/pkg/errors"
)

func TestSubscriptionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Subscription{Email: "anna@example.se"}
	require.NoError(t, repo.Create(context.Background(), sub))

	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnError(&pq.Error{Code: pgUniqueViolation})

	err := repo.Create(context.Background(), &models.Subscription{Email: "anna@example.se"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	category := "music"
	rows := sqlmock.NewRows([]string{"id", "email", "category_filter", "location_filter", "keyword_filter", "created_at"}).
		AddRow("s1", "anna@example.se", category, nil, nil, time.Now()).
		AddRow("s2", "bjorn@example.se", nil, nil, nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM subscriptions ORDER BY created_at ASC").
		WillReturnRows(rows)

	subs, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.NotNil(t, subs[0].CategoryFilter)
	assert.Equal(t, category, *subs[0].CategoryFilter)
	assert.Nil(t, subs[1].CategoryFilter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
