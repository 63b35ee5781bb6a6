package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studydev/studydev/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset")

	testCases := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), store.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"pg foreign key", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "review_logs_card_id_fkey"}, store.ErrInvalidEntity},
		{"pg check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "cards_ease_factor_check"}, store.ErrInvalidEntity},
		{"pg not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "front"}, store.ErrInvalidEntity},
		{"other", generic, generic},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tc.err), tc.target)
		})
	}

	assert.NoError(t, MapError(nil))
	assert.Equal(t, generic, MapError(generic))
}

func TestConstraintHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrCardNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrCardNotFound), store.ErrCardNotFound)
	assert.Error(t, CheckRowsAffected(nil, store.ErrCardNotFound))

	failing := sqlmock.NewErrorResult(errors.New("driver does not support RowsAffected"))
	assert.ErrorContains(t, CheckRowsAffected(failing, store.ErrCardNotFound), "failed to get rows affected")
}
