package card_review

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/config"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewNow = time.Date(2024, 5, 20, 18, 0, 0, 0, time.UTC)

type fixture struct {
	db    *sqlx.DB
	cards *sqlstore.CardStore
	logs  *sqlstore.ReviewLogStore
	svc   CardReviewService
}

func newFixture(t *testing.T, logRepo ReviewLogRepository) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, config.DatabaseConfig{
		Driver: sqlstore.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "review.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.EnsureSchema(ctx, db))

	f := &fixture{
		db:    db,
		cards: sqlstore.NewCardStore(db, nil),
		logs:  sqlstore.NewReviewLogStore(db, nil),
	}
	if logRepo == nil {
		logRepo = NewReviewLogRepositoryAdapter(f.logs)
	}
	f.svc = NewCardReviewService(
		NewCardRepositoryAdapter(f.cards, db),
		logRepo,
		srs.NewDefaultService(),
		srs.FixedClock(reviewNow),
		nil,
	)
	return f
}

func (f *fixture) addCard(t *testing.T, subject, front string, due time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(subject, front, "back of "+front, nil, reviewNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	card.DueDate = domain.Date(due)
	require.NoError(t, f.cards.Create(context.Background(), card))
	return card
}

func TestSubmitAnswer_PersistsGradeAndLog(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	card := f.addCard(t, "go", "defer order", reviewNow)

	graded, err := f.svc.SubmitAnswer(ctx, card.ID, ReviewAnswer{Outcome: domain.QualityPerfect})
	require.NoError(t, err)

	assert.InDelta(t, 2.6, graded.EaseFactor, 1e-9)
	assert.Equal(t, 1, graded.IntervalDays)
	assert.Equal(t, 1, graded.Repetitions)
	assert.Equal(t, 1, graded.ReviewCount)
	assert.Equal(t, "2024-05-21", graded.DueDate.Format(domain.DateLayout))

	stored, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, stored.EaseFactor, 1e-9)
	assert.Equal(t, 1, stored.Repetitions)
	require.NotNil(t, stored.LastReviewedAt)
	assert.True(t, reviewNow.Equal(*stored.LastReviewedAt))

	entries, err := f.logs.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QualityPerfect, entries[0].Quality)
	assert.Equal(t, 1, entries[0].IntervalDays)
}

func TestSubmitAnswer_SequenceFollowsSM2(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	card := f.addCard(t, "go", "interfaces", reviewNow)

	var got *domain.Card
	var err error
	for _, q := range []domain.ReviewOutcome{domain.QualityCorrectHesitation, domain.QualityCorrectHesitation, domain.QualityCorrectHesitation} {
		got, err = f.svc.SubmitAnswer(ctx, card.ID, ReviewAnswer{Outcome: q})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, got.Repetitions)
	assert.Equal(t, 15, got.IntervalDays)
	assert.InDelta(t, 2.5, got.EaseFactor, 1e-9)

	lapsed, err := f.svc.SubmitAnswer(ctx, card.ID, ReviewAnswer{Outcome: domain.QualityBlackout})
	require.NoError(t, err)
	assert.Equal(t, 0, lapsed.Repetitions)
	assert.Equal(t, 1, lapsed.IntervalDays)
	assert.InDelta(t, 1.7, lapsed.EaseFactor, 1e-9)
	assert.Equal(t, 4, lapsed.ReviewCount)

	entries, err := f.logs.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestSubmitAnswer_InvalidOutcomeLeavesCardUntouched(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	card := f.addCard(t, "go", "select", reviewNow)

	for _, q := range []domain.ReviewOutcome{-1, 6, 7} {
		got, err := f.svc.SubmitAnswer(ctx, card.ID, ReviewAnswer{Outcome: q})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidAnswer)
		assert.ErrorIs(t, err, srs.ErrInvalidOutcome)
		assert.ErrorIs(t, err, domain.ErrInvalidReviewOutcome)
	}

	stored, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ReviewCount)
	assert.Nil(t, stored.LastReviewedAt)

	entries, err := f.logs.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitAnswer_CardNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.SubmitAnswer(context.Background(), 404, ReviewAnswer{Outcome: domain.QualityPerfect})
	assert.ErrorIs(t, err, ErrCardNotFound)
}

type failingLogRepo struct{ err error }

func (f failingLogRepo) Create(context.Context, *domain.ReviewLog) error { return f.err }
func (f failingLogRepo) WithTx(*sqlx.Tx) ReviewLogRepository          { return f }

func TestSubmitAnswer_LogFailureRollsBackGrade(t *testing.T) {
	boom := errors.New("disk full")
	f := newFixture(t, failingLogRepo{err: boom})
	ctx := context.Background()
	card := f.addCard(t, "go", "maps", reviewNow)

	_, err := f.svc.SubmitAnswer(ctx, card.ID, ReviewAnswer{Outcome: domain.QualityPerfect})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "submit_answer", svcErr.Operation)

	stored, err := f.cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Repetitions, "grade must not survive a failed transaction")
	assert.InDelta(t, domain.DefaultEaseFactor, stored.EaseFactor, 1e-9)
}

func TestDueCardsAndNextCard(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	oldest := f.addCard(t, "go", "oldest", reviewNow.AddDate(0, 0, -5))
	tieLow := f.addCard(t, "math", "tie a", reviewNow.AddDate(0, 0, -2))
	tieHigh := f.addCard(t, "go", "tie b", reviewNow.AddDate(0, 0, -2))
	f.addCard(t, "go", "future", reviewNow.AddDate(0, 0, 2))

	due, err := f.svc.DueCards(ctx, srs.DueFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{oldest.ID, tieLow.ID, tieHigh.ID}, ids(due))

	limited, err := f.svc.DueCards(ctx, srs.DueFilter{Subject: "go", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{oldest.ID}, ids(limited))

	next, err := f.svc.NextCard(ctx, "math")
	require.NoError(t, err)
	assert.Equal(t, tieLow.ID, next.ID)

	_, err = f.svc.NextCard(ctx, "history")
	assert.ErrorIs(t, err, ErrNoCardsDue)
}

func TestPostpone(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	overdue := f.addCard(t, "go", "overdue", reviewNow.AddDate(0, 0, -4))
	future := f.addCard(t, "go", "future", reviewNow.AddDate(0, 0, 3))

	got, err := f.svc.Postpone(ctx, overdue.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-22", got.DueDate.Format(domain.DateLayout), "overdue cards move from today")

	got, err = f.svc.Postpone(ctx, future.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-25", got.DueDate.Format(domain.DateLayout))

	stored, err := f.cards.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-25", stored.DueDate.Format(domain.DateLayout))

	_, err = f.svc.Postpone(ctx, future.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPostpone)
	assert.ErrorIs(t, err, srs.ErrInvalidDays)

	_, err = f.svc.Postpone(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestServiceError(t *testing.T) {
	inner := errors.New("db down")

	err := NewDueCardsError("failed to load due cards", inner)
	assert.Equal(t, "due_cards operation failed: failed to load due cards: db down", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := &ServiceError{Operation: "postpone", Message: "nothing to do"}
	assert.Equal(t, "postpone operation failed: nothing to do", bare.Error())
}

func TestNewCardReviewService_PanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() {
		NewCardReviewService(nil, failingLogRepo{}, srs.NewDefaultService(), nil, nil)
	})
}

func ids(cards []domain.Card) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
