package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
)

// ReviewLogStore persists the append-only history of grading events.
type ReviewLogStore interface {
	// Create appends a review log entry.
	// Returns ErrCardNotFound if the referenced card does not exist.
	Create(ctx context.Context, entry *domain.ReviewLog) error

	// ListByCard returns the entries for a card, oldest first.
	ListByCard(ctx context.Context, cardID int64) ([]domain.ReviewLog, error)

	// Summary counts reviews and lapses recorded at or after since.
	// A non-empty subject restricts the count to cards of that subject.
	Summary(ctx context.Context, subject string, since time.Time) (domain.ReviewSummary, error)

	// WithTx returns a ReviewLogStore bound to the given transaction.
	WithTx(tx *sqlx.Tx) ReviewLogStore
}
