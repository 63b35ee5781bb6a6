package card_review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/logger"
	"github.com/studydev/studydev/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// cardReviewServiceImpl implements the CardReviewService interface.
type cardReviewServiceImpl struct {
	cardRepo   CardRepository
	logRepo    ReviewLogRepository
	srsService srs.Service
	clock      srs.Clock
	logger     *slog.Logger
}

// NewCardReviewService creates a new CardReviewService implementation.
// A nil clock means the system clock.
func NewCardReviewService(
	cardRepo CardRepository,
	logRepo ReviewLogRepository,
	srsService srs.Service,
	clock srs.Clock,
	logger *slog.Logger,
) CardReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if logRepo == nil {
		panic("logRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardReviewServiceImpl{
		cardRepo:   cardRepo,
		logRepo:    logRepo,
		srsService: srsService,
		clock:      clock,
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
}

// DueCards implements CardReviewService.DueCards.
func (s *cardReviewServiceImpl) DueCards(ctx context.Context, filter srs.DueFilter) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now()

	candidates, err := s.cardRepo.ListDue(ctx, filter.Subject, now)
	if err != nil {
		log.Error("failed to load due cards",
			slog.String("error", err.Error()),
			slog.String("subject", filter.Subject))
		return nil, NewDueCardsError("failed to load due cards", err)
	}

	due := srs.SelectDue(candidates, now, filter)
	log.Debug("selected due cards",
		slog.String("subject", filter.Subject),
		slog.Int("candidates", len(candidates)),
		slog.Int("selected", len(due)))
	return due, nil
}

// NextCard implements CardReviewService.NextCard.
func (s *cardReviewServiceImpl) NextCard(ctx context.Context, subject string) (*domain.Card, error) {
	due, err := s.DueCards(ctx, srs.DueFilter{Subject: subject, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		logger.FromContextOrDefault(ctx, s.logger).
			Debug("no cards due for review", slog.String("subject", subject))
		return nil, ErrNoCardsDue
	}
	return &due[0], nil
}

// SubmitAnswer implements CardReviewService.SubmitAnswer.
func (s *cardReviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	cardID int64,
	answer ReviewAnswer,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.Int64("card_id", cardID),
		slog.String("outcome", answer.Outcome.String()))

	if !answer.Outcome.Valid() {
		log.Warn("invalid review outcome",
			slog.Int64("card_id", cardID),
			slog.Int("outcome", int(answer.Outcome)))
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnswer, srs.ErrInvalidOutcome)
	}

	now := s.clock.Now()

	var graded domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, cards CardRepository, logs ReviewLogRepository) error {
		card, err := cards.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		graded, err = s.srsService.Grade(*card, answer.Outcome, now)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
		}

		if err := cards.Save(ctx, &graded); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}

		if err := logs.Create(ctx, domain.NewReviewLog(graded, answer.Outcome, now)); err != nil {
			return fmt.Errorf("failed to record review: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrInvalidAnswer) {
			log.Warn("review answer rejected",
				slog.Int64("card_id", cardID),
				slog.String("error", err.Error()))
			return nil, err
		}

		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, NewSubmitAnswerError("failed to submit answer", err)
	}

	log.Debug("successfully processed review answer",
		slog.Int64("card_id", cardID),
		slog.String("outcome", answer.Outcome.String()),
		slog.Float64("ease_factor", graded.EaseFactor),
		slog.Int("interval_days", graded.IntervalDays),
		slog.String("due_date", graded.DueDate.Format(domain.DateLayout)))

	return &graded, nil
}

// Postpone implements CardReviewService.Postpone.
func (s *cardReviewServiceImpl) Postpone(ctx context.Context, cardID int64, days int) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPostpone, srs.ErrInvalidDays)
	}

	now := s.clock.Now()

	var postponed domain.Card
	err := s.runInTransaction(ctx, func(ctx context.Context, cards CardRepository, _ ReviewLogRepository) error {
		card, err := cards.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		postponed, err = s.srsService.Postpone(*card, days, now)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPostpone, err)
		}

		return cards.Save(ctx, &postponed)
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrInvalidPostpone) {
			return nil, err
		}
		log.Error("failed to postpone card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, NewPostponeError("failed to postpone card", err)
	}

	log.Debug("card postponed",
		slog.Int64("card_id", cardID),
		slog.Int("days", days),
		slog.String("due_date", postponed.DueDate.Format(domain.DateLayout)))
	return &postponed, nil
}

// runInTransaction runs fn with repositories bound to a single transaction.
func (s *cardReviewServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(context.Context, CardRepository, ReviewLogRepository) error,
) error {
	return store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, s.cardRepo.WithTx(tx), s.logRepo.WithTx(tx))
	})
}
