package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)

	card, err := NewCard(" Go ", "What is a goroutine?", "A lightweight thread", []string{"lang", " lang", ""}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(0), card.ID, "ID is assigned by the store")
	assert.Equal(t, "Go", card.Subject)
	assert.Equal(t, []string{"lang"}, card.Tags)
	assert.Equal(t, DefaultEaseFactor, card.EaseFactor)
	assert.Equal(t, 0, card.IntervalDays)
	assert.Equal(t, 0, card.Repetitions)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), card.DueDate)
	assert.Nil(t, card.LastReviewedAt)
	assert.True(t, card.IsNew())
	assert.True(t, card.IsDue(now))
}

func TestNewCard_Validation(t *testing.T) {
	t.Parallel()
	now := time.Now()

	testCases := []struct {
		name    string
		subject string
		front   string
		back    string
		wantErr error
	}{
		{"empty subject", "  ", "front", "back", ErrCardSubjectEmpty},
		{"empty front", "go", "", "back", ErrCardFrontEmpty},
		{"empty back", "go", "front", "\n", ErrCardBackEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCard(tc.subject, tc.front, tc.back, nil, now)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestCardValidate_SchedulingFields(t *testing.T) {
	t.Parallel()
	base := Card{Subject: "s", Front: "f", Back: "b", EaseFactor: 2.5}

	c := base
	c.IntervalDays = -1
	assert.ErrorIs(t, c.Validate(), ErrInvalidInterval)

	c = base
	c.EaseFactor = 1.0
	assert.ErrorIs(t, c.Validate(), ErrInvalidEaseFactor)

	c = base
	c.Repetitions = -2
	assert.ErrorIs(t, c.Validate(), ErrInvalidRepetitions)

	assert.NoError(t, base.Validate())
}

func TestCardClone(t *testing.T) {
	t.Parallel()
	reviewed := time.Now()
	orig := Card{Tags: []string{"a", "b"}, LastReviewedAt: &reviewed}

	clone := orig.Clone()
	clone.Tags[0] = "changed"
	*clone.LastReviewedAt = reviewed.Add(time.Hour)

	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, reviewed, *orig.LastReviewedAt)
}

func TestDate(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Date(late))

	parsed, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, Date(late), parsed)
}

func TestIsDue(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)

	assert.True(t, Card{DueDate: Date(now).AddDate(0, 0, -3)}.IsDue(now))
	assert.True(t, Card{DueDate: Date(now)}.IsDue(now))
	assert.False(t, Card{DueDate: Date(now).AddDate(0, 0, 1)}.IsDue(now))
}
