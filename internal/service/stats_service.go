package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/logger"
)

// masteryRepetitions is the repetition streak counted as fully learned.
const masteryRepetitions = 5

// recentWindow is the look-back period for review activity in DeckStats.
const recentWindow = 24 * time.Hour

// ReviewLogRepository provides aggregated review history.
type ReviewLogRepository interface {
	Summary(ctx context.Context, subject string, since time.Time) (domain.ReviewSummary, error)
}

// DeckStats summarises a subject, or the whole deck when Subject is empty.
type DeckStats struct {
	Subject            string  `json:"subject,omitempty"`
	Total              int     `json:"total"`
	Due                int     `json:"due"`
	AverageRepetitions float64 `json:"average_repetitions"`
	MasteryRate        float64 `json:"mastery_rate"`
	ReviewsLast24h     int     `json:"reviews_last_24h"`
	LapsesLast24h      int     `json:"lapses_last_24h"`
}

// StatsService computes deck statistics.
type StatsService interface {
	// Stats summarises one subject, or every card for "".
	Stats(ctx context.Context, subject string) (DeckStats, error)

	// SubjectBreakdown returns Stats for each subject in alphabetical order.
	SubjectBreakdown(ctx context.Context) ([]DeckStats, error)
}

type statsServiceImpl struct {
	cardRepo CardRepository
	logRepo  ReviewLogRepository
	clock    srs.Clock
	logger   *slog.Logger
}

// NewStatsService creates a StatsService. A nil clock means the system clock.
func NewStatsService(
	cardRepo CardRepository,
	logRepo ReviewLogRepository,
	clock srs.Clock,
	logger *slog.Logger,
) (StatsService, error) {
	if cardRepo == nil {
		return nil, fmt.Errorf("%w: cardRepo cannot be nil", domain.ErrValidation)
	}
	if logRepo == nil {
		return nil, fmt.Errorf("%w: logRepo cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &statsServiceImpl{
		cardRepo: cardRepo,
		logRepo:  logRepo,
		clock:    clock,
		logger:   logger.With(slog.String("component", "stats_service")),
	}, nil
}

// Stats implements StatsService.Stats
func (s *statsServiceImpl) Stats(ctx context.Context, subject string) (DeckStats, error) {
	now := s.clock.Now()

	cards, err := s.cardRepo.ListBySubject(ctx, subject)
	if err != nil {
		return DeckStats{}, s.fail(ctx, "failed to load cards", err)
	}

	stats := summarise(subject, cards, now)
	if err := s.addActivity(ctx, &stats, now); err != nil {
		return DeckStats{}, err
	}
	return stats, nil
}

// SubjectBreakdown implements StatsService.SubjectBreakdown
func (s *statsServiceImpl) SubjectBreakdown(ctx context.Context) ([]DeckStats, error) {
	now := s.clock.Now()

	cards, err := s.cardRepo.ListBySubject(ctx, "")
	if err != nil {
		return nil, s.fail(ctx, "failed to load cards", err)
	}

	bySubject := make(map[string][]domain.Card)
	for _, c := range cards {
		bySubject[c.Subject] = append(bySubject[c.Subject], c)
	}

	subjects := make([]string, 0, len(bySubject))
	for subject := range bySubject {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	out := make([]DeckStats, 0, len(subjects))
	for _, subject := range subjects {
		stats := summarise(subject, bySubject[subject], now)
		if err := s.addActivity(ctx, &stats, now); err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *statsServiceImpl) addActivity(ctx context.Context, stats *DeckStats, now time.Time) error {
	summary, err := s.logRepo.Summary(ctx, stats.Subject, now.Add(-recentWindow))
	if err != nil {
		return s.fail(ctx, "failed to summarise review log", err)
	}
	stats.ReviewsLast24h = summary.Reviews
	stats.LapsesLast24h = summary.Lapses
	return nil
}

func (s *statsServiceImpl) fail(ctx context.Context, message string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error(message, slog.String("error", err.Error()))
	return NewCardServiceError("stats", message, err)
}

func summarise(subject string, cards []domain.Card, now time.Time) DeckStats {
	stats := DeckStats{Subject: subject, Total: len(cards)}
	if len(cards) == 0 {
		return stats
	}

	reps := 0
	for _, c := range cards {
		reps += c.Repetitions
		if c.IsDue(now) {
			stats.Due++
		}
	}

	avg := float64(reps) / float64(len(cards))
	stats.AverageRepetitions = math.Round(avg*100) / 100
	stats.MasteryRate = MasteryRate(avg)
	return stats
}

// MasteryRate converts an average repetition streak into a percentage capped
// at 100 and rounded to one decimal place.
func MasteryRate(avgRepetitions float64) float64 {
	rate := min(avgRepetitions/masteryRepetitions*100, 100)
	return math.Round(rate*10) / 10
}
