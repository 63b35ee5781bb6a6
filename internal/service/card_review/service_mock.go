package card_review

import (
	"context"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
)

// MockCardReviewService is a mock implementation of the CardReviewService interface for testing.
type MockCardReviewService struct {
	DueCardsFunc     func(ctx context.Context, filter srs.DueFilter) ([]domain.Card, error)
	NextCardFunc     func(ctx context.Context, subject string) (*domain.Card, error)
	SubmitAnswerFunc func(ctx context.Context, cardID int64, answer ReviewAnswer) (*domain.Card, error)
	PostponeFunc     func(ctx context.Context, cardID int64, days int) (*domain.Card, error)
}

var _ CardReviewService = (*MockCardReviewService)(nil)

// DueCards calls DueCardsFunc or returns no cards.
func (m *MockCardReviewService) DueCards(ctx context.Context, filter srs.DueFilter) ([]domain.Card, error) {
	if m.DueCardsFunc != nil {
		return m.DueCardsFunc(ctx, filter)
	}
	return nil, nil
}

// NextCard calls NextCardFunc or reports that nothing is due.
func (m *MockCardReviewService) NextCard(ctx context.Context, subject string) (*domain.Card, error) {
	if m.NextCardFunc != nil {
		return m.NextCardFunc(ctx, subject)
	}
	return nil, ErrNoCardsDue
}

// SubmitAnswer calls SubmitAnswerFunc.
func (m *MockCardReviewService) SubmitAnswer(
	ctx context.Context,
	cardID int64,
	answer ReviewAnswer,
) (*domain.Card, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, cardID, answer)
	}
	return nil, nil
}

// Postpone calls PostponeFunc.
func (m *MockCardReviewService) Postpone(ctx context.Context, cardID int64, days int) (*domain.Card, error) {
	if m.PostponeFunc != nil {
		return m.PostponeFunc(ctx, cardID, days)
	}
	return nil, nil
}
