package domain

import (
	"errors"
	"strings"
	"time"
)

// Default scheduling values for a freshly created card.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Card-specific validation errors
var (
	// ErrCardSubjectEmpty is returned when a card has no subject.
	ErrCardSubjectEmpty = errors.New("card subject cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front face is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back face is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrInvalidInterval is returned when the interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidEaseFactor is returned when the ease factor is not above 1.0.
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")

	// ErrInvalidRepetitions is returned when the repetition count is negative.
	ErrInvalidRepetitions = errors.New("repetitions must be greater than or equal to 0")
)

// Card is a single learnable fact together with its SM-2 scheduling state.
//
// A Card is treated as a value: scheduling operations return an updated copy
// and never modify the card they were given.
type Card struct {
	ID      int64    `json:"id"`
	Subject string   `json:"subject"`
	Front   string   `json:"front"`
	Back    string   `json:"back"`
	Tags    []string `json:"tags,omitempty"`

	EaseFactor   float64 `json:"ease_factor"`
	IntervalDays int     `json:"interval_days"`
	Repetitions  int     `json:"repetitions"` // consecutive successful reviews
	ReviewCount  int     `json:"review_count"`

	// DueDate is a calendar date at midnight UTC; see Date.
	DueDate        time.Time  `json:"due_date"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates an unsaved card with default scheduling state. The card is
// due on the calendar date of now. The ID is assigned by the store.
func NewCard(subject, front, back string, tags []string, now time.Time) (*Card, error) {
	card := &Card{
		Subject:      strings.TrimSpace(subject),
		Front:        strings.TrimSpace(front),
		Back:         strings.TrimSpace(back),
		Tags:         NormalizeTags(tags),
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		DueDate:      Date(now),
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return ErrCardSubjectEmpty
	}

	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}

	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}

	if c.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if c.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if c.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// IsNew reports whether the card has never been graded.
func (c Card) IsNew() bool {
	return c.LastReviewedAt == nil
}

// IsDue reports whether the card is eligible for review on the date of now.
func (c Card) IsDue(now time.Time) bool {
	return !c.DueDate.After(Date(now))
}

// Clone returns a deep copy of the card so that slices and pointers are not
// shared with the original.
func (c Card) Clone() Card {
	out := c
	if c.Tags != nil {
		out.Tags = make([]string, len(c.Tags))
		copy(out.Tags, c.Tags)
	}
	if c.LastReviewedAt != nil {
		t := *c.LastReviewedAt
		out.LastReviewedAt = &t
	}
	return out
}

// Date truncates t to its calendar date, expressed as midnight UTC. The civil
// date is taken from t's own location so a late-evening local review is not
// shifted to the next day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the textual form used to persist due dates.
const DateLayout = "2006-01-02"

// ParseDate parses a persisted due date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// NormalizeTags trims, drops empties and de-duplicates tags, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
