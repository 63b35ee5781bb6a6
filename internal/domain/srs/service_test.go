package srs

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/studydev/studydev/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func newTestCard(t *testing.T, svc Service) domain.Card {
	t.Helper()
	card, err := svc.NewCard("go", "What does defer do?", "Runs at function return", nil, day0)
	require.NoError(t, err)
	card.ID = 1
	return *card
}

func TestNewDefaultService(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	require.NotNil(t, service)
	assert.Equal(t, DefaultParams(), service.Params())
}

func TestNewServiceWithParams_Validates(t *testing.T) {
	t.Parallel()

	params := DefaultParams()
	params.MinEaseFactor = 0.9
	_, err := NewServiceWithParams(params)
	assert.ErrorIs(t, err, ErrInvalidParams)

	params = DefaultParams()
	params.SecondInterval = 0
	_, err = NewServiceWithParams(params)
	assert.ErrorIs(t, err, ErrInvalidParams)

	params = DefaultParams()
	params.InitialEaseFactor = 3.0
	svc, err := NewServiceWithParams(params)
	require.NoError(t, err)

	card, err := svc.NewCard("s", "f", "b", nil, day0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, card.EaseFactor)
}

func TestGrade_ExampleScenarios(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	t.Run("new card graded 4", func(t *testing.T) {
		card := newTestCard(t, svc)

		got, err := svc.Grade(card, domain.QualityCorrectHesitation, day0)
		require.NoError(t, err)

		assert.Equal(t, 1, got.Repetitions)
		assert.Equal(t, 1, got.IntervalDays)
		assert.InDelta(t, 2.5, got.EaseFactor, 1e-9)
		assert.Equal(t, domain.Date(day0).AddDate(0, 0, 1), got.DueDate)
		require.NotNil(t, got.LastReviewedAt)
		assert.Equal(t, day0, *got.LastReviewedAt)
	})

	t.Run("reviewed again next day with 5", func(t *testing.T) {
		card := newTestCard(t, svc)
		first, err := svc.Grade(card, domain.QualityCorrectHesitation, day0)
		require.NoError(t, err)

		second, err := svc.Grade(first, domain.QualityPerfect, day0.AddDate(0, 0, 1))
		require.NoError(t, err)

		assert.Equal(t, 2, second.Repetitions)
		assert.Equal(t, 6, second.IntervalDays)
	})

	t.Run("third success multiplies by new ease", func(t *testing.T) {
		card := newTestCard(t, svc)
		card.Repetitions = 2
		card.IntervalDays = 6
		card.EaseFactor = 2.5

		got, err := svc.Grade(card, domain.QualityPerfect, day0)
		require.NoError(t, err)

		assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
		assert.Equal(t, 16, got.IntervalDays) // round(6 * 2.6)
		assert.Equal(t, 3, got.Repetitions)
	})

	t.Run("lapse on a mature card", func(t *testing.T) {
		card := newTestCard(t, svc)
		card.Repetitions = 5
		card.IntervalDays = 20

		got, err := svc.Grade(card, domain.QualityIncorrect, day0)
		require.NoError(t, err)

		assert.Equal(t, 0, got.Repetitions)
		assert.Equal(t, 1, got.IntervalDays)
		assert.Less(t, got.EaseFactor, card.EaseFactor)
		assert.GreaterOrEqual(t, got.EaseFactor, domain.MinEaseFactor)
	})

	t.Run("out of range quality", func(t *testing.T) {
		card := newTestCard(t, svc)

		got, err := svc.Grade(card, domain.ReviewOutcome(7), day0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOutcome))
		assert.True(t, errors.Is(err, domain.ErrInvalidReviewOutcome))
		assert.Equal(t, card, got)

		_, err = svc.Grade(card, domain.ReviewOutcome(-1), day0)
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})
}

func randomCard(r *rand.Rand) domain.Card {
	reviewed := day0.Add(time.Duration(r.Intn(1000)) * time.Hour)
	card := domain.Card{
		ID:           r.Int63n(1000) + 1,
		Subject:      "s",
		Front:        "f",
		Back:         "b",
		EaseFactor:   domain.MinEaseFactor + r.Float64()*2,
		IntervalDays: r.Intn(400),
		Repetitions:  r.Intn(12),
		ReviewCount:  r.Intn(50),
	}
	card.DueDate = domain.Date(reviewed).AddDate(0, 0, card.IntervalDays)
	if r.Intn(2) == 0 {
		card.LastReviewedAt = &reviewed
	}
	return card
}

func TestGrade_Properties(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		card := randomCard(r)
		outcome := domain.ReviewOutcome(r.Intn(6))
		now := day0.Add(time.Duration(r.Intn(10000)) * time.Minute)

		first, err := svc.Grade(card, outcome, now)
		require.NoError(t, err)
		second, err := svc.Grade(card, outcome, now)
		require.NoError(t, err)

		// Determinism
		assert.Equal(t, first, second)

		// Ease floor
		assert.GreaterOrEqual(t, first.EaseFactor, domain.MinEaseFactor)

		// Lapse resets repetitions
		if outcome.IsLapse() {
			assert.Equal(t, 0, first.Repetitions)
			assert.Equal(t, 1, first.IntervalDays)
		} else {
			assert.Equal(t, card.Repetitions+1, first.Repetitions)
			assert.GreaterOrEqual(t, first.IntervalDays, 1)
		}

		// Due date derives from the review date
		assert.Equal(t, domain.Date(now).AddDate(0, 0, first.IntervalDays), first.DueDate)
	}
}

func TestGrade_MonotonicGrowthOnStreak(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	card := newTestCard(t, svc)
	now := day0
	var err error
	for i := 0; i < 3; i++ {
		card, err = svc.Grade(card, domain.QualityCorrectHesitation, now)
		require.NoError(t, err)
		now = now.AddDate(0, 0, card.IntervalDays)
	}
	require.GreaterOrEqual(t, card.Repetitions, 3)

	prev := card.IntervalDays
	for i := 0; i < 10; i++ {
		card, err = svc.Grade(card, domain.QualityCorrectHesitation, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.IntervalDays, prev)
		prev = card.IntervalDays
		now = now.AddDate(0, 0, card.IntervalDays)
	}
}

func TestPostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	card := newTestCard(t, svc)
	card.DueDate = domain.Date(day0).AddDate(0, 0, 3)

	got, err := svc.Postpone(card, 2, day0)
	require.NoError(t, err)
	assert.Equal(t, domain.Date(day0).AddDate(0, 0, 5), got.DueDate)
	assert.Equal(t, card.IntervalDays, got.IntervalDays)

	overdue := card
	overdue.DueDate = domain.Date(day0).AddDate(0, 0, -10)
	got, err = svc.Postpone(overdue, 1, day0)
	require.NoError(t, err)
	assert.Equal(t, domain.Date(day0).AddDate(0, 0, 1), got.DueDate)

	got, err = svc.Postpone(card, 0, day0)
	assert.ErrorIs(t, err, ErrInvalidDays)
	assert.Equal(t, card, got)
}
