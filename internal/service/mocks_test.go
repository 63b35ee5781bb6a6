package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository mocks the CardRepository interface
type MockCardRepository struct {
	mock.Mock
	db *sqlx.DB
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListBySubject(ctx context.Context, subject string) ([]domain.Card, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error) {
	args := m.Called(ctx, subject, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) Save(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) Subjects(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// WithTx returns the same mock so expectations carry into the transaction.
func (m *MockCardRepository) WithTx(*sqlx.Tx) CardRepository {
	return m
}

func (m *MockCardRepository) DB() *sqlx.DB {
	return m.db
}

// MockReviewLogRepository mocks the ReviewLogRepository interface
type MockReviewLogRepository struct {
	mock.Mock
}

func (m *MockReviewLogRepository) Summary(
	ctx context.Context,
	subject string,
	since time.Time,
) (domain.ReviewSummary, error) {
	args := m.Called(ctx, subject, since)
	return args.Get(0).(domain.ReviewSummary), args.Error(1)
}
