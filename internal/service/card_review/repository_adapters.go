package card_review

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/store"
)

// CardRepository is the card persistence the review service needs.
type CardRepository interface {
	// GetForUpdate retrieves a card, locking it where the backend supports it.
	// Returns ErrCardNotFound if the card does not exist.
	GetForUpdate(ctx context.Context, id int64) (*domain.Card, error)

	// ListDue returns candidate cards due on or before the date of day.
	ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error)

	// Save persists the card's scheduling state.
	Save(ctx context.Context, card *domain.Card) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sqlx.Tx) CardRepository

	// DB returns the underlying database connection.
	DB() *sqlx.DB
}

// ReviewLogRepository appends grading events.
type ReviewLogRepository interface {
	Create(ctx context.Context, entry *domain.ReviewLog) error
	WithTx(tx *sqlx.Tx) ReviewLogRepository
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sqlx.DB) CardRepository {
	return &cardRepositoryAdapter{cardStore: cardStore, db: db}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sqlx.DB
}

// GetForUpdate implements CardRepository.GetForUpdate and translates the
// store's not-found error into the service's.
func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id int64) (*domain.Card, error) {
	card, err := a.cardStore.GetForUpdate(ctx, id)
	if errors.Is(err, store.ErrCardNotFound) {
		return nil, ErrCardNotFound
	}
	return card, err
}

// ListDue implements CardRepository.ListDue
func (a *cardRepositoryAdapter) ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error) {
	return a.cardStore.ListDue(ctx, subject, day)
}

// Save implements CardRepository.Save
func (a *cardRepositoryAdapter) Save(ctx context.Context, card *domain.Card) error {
	err := a.cardStore.Save(ctx, card)
	if errors.Is(err, store.ErrCardNotFound) {
		return ErrCardNotFound
	}
	return err
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sqlx.Tx) CardRepository {
	return &cardRepositoryAdapter{cardStore: a.cardStore.WithTx(tx), db: a.db}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sqlx.DB {
	return a.db
}

// NewReviewLogRepositoryAdapter adapts a store.ReviewLogStore to ReviewLogRepository.
func NewReviewLogRepositoryAdapter(logStore store.ReviewLogStore) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: logStore}
}

type reviewLogRepositoryAdapter struct {
	logStore store.ReviewLogStore
}

// Create implements ReviewLogRepository.Create
func (a *reviewLogRepositoryAdapter) Create(ctx context.Context, entry *domain.ReviewLog) error {
	return a.logStore.Create(ctx, entry)
}

// WithTx implements ReviewLogRepository.WithTx
func (a *reviewLogRepositoryAdapter) WithTx(tx *sqlx.Tx) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: a.logStore.WithTx(tx)}
}
