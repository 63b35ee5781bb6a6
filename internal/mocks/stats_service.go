package mocks

import (
	"context"

	"github.com/studydev/studydev/internal/service"
)

// MockStatsService implements service.StatsService for testing
type MockStatsService struct {
	StatsFn            func(ctx context.Context, subject string) (service.DeckStats, error)
	SubjectBreakdownFn func(ctx context.Context) ([]service.DeckStats, error)

	DefaultStats service.DeckStats
	DefaultError error
}

var _ service.StatsService = (*MockStatsService)(nil)

// Stats implements the StatsService.Stats method
func (m *MockStatsService) Stats(ctx context.Context, subject string) (service.DeckStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, subject)
	}
	return m.DefaultStats, m.DefaultError
}

// SubjectBreakdown implements the StatsService.SubjectBreakdown method
func (m *MockStatsService) SubjectBreakdown(ctx context.Context) ([]service.DeckStats, error) {
	if m.SubjectBreakdownFn != nil {
		return m.SubjectBreakdownFn(ctx)
	}
	return nil, m.DefaultError
}
