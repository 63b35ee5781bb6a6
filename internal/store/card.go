package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create inserts a new card and assigns its ID.
	// The card must already be valid according to domain validation rules;
	// ErrInvalidEntity is returned otherwise.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Card, error)

	// GetForUpdate retrieves a card and locks its row for the rest of the
	// surrounding transaction on backends that support row locks.
	// Intended to be called on a store returned by WithTx.
	GetForUpdate(ctx context.Context, id int64) (*domain.Card, error)

	// ListBySubject returns all cards of a subject ordered by ID.
	// An empty subject returns every card.
	ListBySubject(ctx context.Context, subject string) ([]domain.Card, error)

	// ListDue returns the cards whose due date is on or before the civil date
	// of day, optionally restricted to a subject. Ordering is left to the caller.
	ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error)

	// Save persists all mutable fields of an existing card, scheduling state included.
	// Returns ErrCardNotFound if the card does not exist.
	Save(ctx context.Context, card *domain.Card) error

	// Delete removes a card and, through ON DELETE CASCADE, its review log.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id int64) error

	// Subjects returns the distinct subjects in alphabetical order.
	Subjects(ctx context.Context) ([]string, error)

	// WithTx returns a CardStore bound to the given transaction.
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
	//       card, err := cards.WithTx(tx).GetForUpdate(ctx, id)
	//       ...
	//   })
	WithTx(tx *sqlx.Tx) CardStore
}
