package mocks

import (
	"context"
	"sync"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/service"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	// Custom behavior functions
	CreateCardFn func(ctx context.Context, req service.CreateCardRequest) (*domain.Card, error)
	GetCardFn    func(ctx context.Context, cardID int64) (*domain.Card, error)
	UpdateCardFn func(ctx context.Context, cardID int64, req service.UpdateCardRequest) (*domain.Card, error)
	DeleteCardFn func(ctx context.Context, cardID int64) error
	ListCardsFn  func(ctx context.Context, subject string) ([]domain.Card, error)
	SubjectsFn   func(ctx context.Context) ([]string, error)

	// Default return values
	Card         *domain.Card
	Cards        []domain.Card
	DefaultError error

	mu          sync.Mutex
	CreateCalls []service.CreateCardRequest
	UpdateCalls []service.UpdateCardRequest
	DeleteCalls []int64
}

var _ service.CardService = (*MockCardService)(nil)

// CreateCard implements the CardService.CreateCard method
func (m *MockCardService) CreateCard(ctx context.Context, req service.CreateCardRequest) (*domain.Card, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, req)
	m.mu.Unlock()

	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, req)
	}
	return m.Card, m.DefaultError
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, cardID int64) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, cardID)
	}
	return m.Card, m.DefaultError
}

// UpdateCard implements the CardService.UpdateCard method
func (m *MockCardService) UpdateCard(
	ctx context.Context,
	cardID int64,
	req service.UpdateCardRequest,
) (*domain.Card, error) {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, req)
	m.mu.Unlock()

	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, cardID, req)
	}
	return m.Card, m.DefaultError
}

// DeleteCard implements the CardService.DeleteCard method
func (m *MockCardService) DeleteCard(ctx context.Context, cardID int64) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, cardID)
	m.mu.Unlock()

	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, cardID)
	}
	return m.DefaultError
}

// ListCards implements the CardService.ListCards method
func (m *MockCardService) ListCards(ctx context.Context, subject string) ([]domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, subject)
	}
	return m.Cards, m.DefaultError
}

// Subjects implements the CardService.Subjects method
func (m *MockCardService) Subjects(ctx context.Context) ([]string, error) {
	if m.SubjectsFn != nil {
		return m.SubjectsFn(ctx)
	}
	return nil, m.DefaultError
}
