package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/config"
	"github.com/studydev/studydev/internal/domain"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// newTestDB opens a migrated SQLite database in a fresh temporary directory.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, config.DatabaseConfig{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "nested", "studydev.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, EnsureSchema(ctx, db))
	return db
}

func newCard(t *testing.T, subject, front string, due time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(subject, front, "answer to "+front, []string{"seed"}, testNow)
	require.NoError(t, err)
	card.DueDate = domain.Date(due)
	return card
}

func createCard(t *testing.T, s *CardStore, subject, front string, due time.Time) *domain.Card {
	t.Helper()
	card := newCard(t, subject, front, due)
	require.NoError(t, s.Create(context.Background(), card))
	return card
}
