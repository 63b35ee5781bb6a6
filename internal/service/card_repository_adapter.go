package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/store"
)

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sqlx.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

// cardRepositoryAdapter adapts a store.CardStore to the CardRepository interface
type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sqlx.DB
}

// Create implements CardRepository.Create
func (a *cardRepositoryAdapter) Create(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Create(ctx, card)
}

// GetByID implements CardRepository.GetByID
func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return a.cardStore.GetByID(ctx, id)
}

// GetForUpdate implements CardRepository.GetForUpdate
func (a *cardRepositoryAdapter) GetForUpdate(ctx context.Context, id int64) (*domain.Card, error) {
	return a.cardStore.GetForUpdate(ctx, id)
}

// ListBySubject implements CardRepository.ListBySubject
func (a *cardRepositoryAdapter) ListBySubject(ctx context.Context, subject string) ([]domain.Card, error) {
	return a.cardStore.ListBySubject(ctx, subject)
}

// ListDue implements CardRepository.ListDue
func (a *cardRepositoryAdapter) ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error) {
	return a.cardStore.ListDue(ctx, subject, day)
}

// Save implements CardRepository.Save
func (a *cardRepositoryAdapter) Save(ctx context.Context, card *domain.Card) error {
	return a.cardStore.Save(ctx, card)
}

// Delete implements CardRepository.Delete
func (a *cardRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	return a.cardStore.Delete(ctx, id)
}

// Subjects implements CardRepository.Subjects
func (a *cardRepositoryAdapter) Subjects(ctx context.Context) ([]string, error) {
	return a.cardStore.Subjects(ctx)
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sqlx.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTx(tx),
		db:        a.db,
	}
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

// Summary implements ReviewLogRepository.Summary
func (a *reviewLogRepositoryAdapter) Summary(
	ctx context.Context,
	subject string,
	since time.Time,
) (domain.ReviewSummary, error) {
	return a.logStore.Summary(ctx, subject, since)
}
