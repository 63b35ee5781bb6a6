package sqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresMock returns an sqlx handle that rebinds like the pgx driver.
func newPostgresMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

var cardColumnNames = []string{
	"id", "subject", "front", "back", "tags", "ease_factor", "interval_days",
	"repetitions", "review_count", "due_date", "last_reviewed_at", "created_at", "updated_at",
}

func TestPostgres_GetForUpdateLocksRow(t *testing.T) {
	db, mock := newPostgresMock(t)
	s := NewCardStore(db, nil)

	reviewed := testNow.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM cards WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cardColumnNames).AddRow(
			int64(7), "go", "front", "back", `["a"]`, 2.5, 1, 1, 1,
			"2024-03-11", reviewed, testNow, testNow,
		))

	card, err := s.GetForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), card.ID)
	assert.Equal(t, []string{"a"}, card.Tags)
	assert.Equal(t, "2024-03-11", card.DueDate.Format(domain.DateLayout))
	require.NotNil(t, card.LastReviewedAt)
	assert.True(t, reviewed.Equal(*card.LastReviewedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetByIDDoesNotLock(t *testing.T) {
	db, mock := newPostgresMock(t)
	s := NewCardStore(db, nil)

	mock.ExpectQuery(`FROM cards WHERE id = \$1$`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cardColumnNames))

	_, err := s.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateUsesReturning(t *testing.T) {
	db, mock := newPostgresMock(t)
	s := NewCardStore(db, nil)
	card := newCard(t, "go", "front", testNow)

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING id")).
		WithArgs("go", "front", "answer to front", `["seed"]`, 2.5, 0, 0, 0,
			"2024-03-10", nil, testNow, testNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	require.NoError(t, s.Create(context.Background(), card))
	assert.Equal(t, int64(11), card.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateDuplicate(t *testing.T) {
	db, mock := newPostgresMock(t)
	s := NewCardStore(db, nil)

	mock.ExpectQuery("INSERT INTO cards").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err := s.Create(context.Background(), newCard(t, "go", "front", testNow))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestPostgres_ReviewLogForeignKeyMapsToCardNotFound(t *testing.T) {
	db, mock := newPostgresMock(t)
	logs := NewReviewLogStore(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_logs")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := logs.Create(context.Background(), &domain.ReviewLog{
		CardID: 5, Quality: domain.QualityPerfect, EaseFactor: 2.6, ReviewedAt: testNow,
	})
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveMissingCard(t *testing.T) {
	db, mock := newPostgresMock(t)
	s := NewCardStore(db, nil)
	card := newCard(t, "go", "front", testNow)
	card.ID = 9

	mock.ExpectExec(regexp.QuoteMeta("UPDATE cards SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Save(context.Background(), card), store.ErrCardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
