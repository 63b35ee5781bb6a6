package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome is the recall quality a reviewer assigns to a card, on the
// SM-2 scale 0-5. Grades below QualityPass are lapses.
type ReviewOutcome int

// Possible review outcome values
const (
	QualityBlackout          ReviewOutcome = 0 // complete blackout
	QualityIncorrect         ReviewOutcome = 1 // wrong, remembered on seeing the answer
	QualityIncorrectFamiliar ReviewOutcome = 2 // wrong, but the answer felt familiar
	QualityCorrectDifficult  ReviewOutcome = 3 // right, with serious difficulty
	QualityCorrectHesitation ReviewOutcome = 4 // right, after some hesitation
	QualityPerfect           ReviewOutcome = 5 // perfect recall

	QualityPass = QualityCorrectDifficult
)

// Valid reports whether the outcome lies on the 0-5 scale.
func (o ReviewOutcome) Valid() bool {
	return o >= QualityBlackout && o <= QualityPerfect
}

// IsLapse reports whether the outcome is a failed recall.
func (o ReviewOutcome) IsLapse() bool {
	return o < QualityPass
}

// String returns a short human label for the outcome.
func (o ReviewOutcome) String() string {
	switch o {
	case QualityBlackout:
		return "blackout"
	case QualityIncorrect:
		return "incorrect"
	case QualityIncorrectFamiliar:
		return "familiar"
	case QualityCorrectDifficult:
		return "difficult"
	case QualityCorrectHesitation:
		return "hesitant"
	case QualityPerfect:
		return "perfect"
	default:
		return "invalid(" + strconv.Itoa(int(o)) + ")"
	}
}

// ParseReviewOutcome parses a quality score typed by a reviewer.
func ParseReviewOutcome(s string) (ReviewOutcome, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidReviewOutcome, s)
	}
	o := ReviewOutcome(n)
	if !o.Valid() {
		return 0, fmt.Errorf("%w: %d is outside 0-5", ErrInvalidReviewOutcome, n)
	}
	return o, nil
}

// ReviewLog records a single grading event for a card.
type ReviewLog struct {
	ID           uuid.UUID     `json:"id"`
	CardID       int64         `json:"card_id"`
	Quality      ReviewOutcome `json:"quality"`
	IntervalDays int           `json:"interval_days"`
	EaseFactor   float64       `json:"ease_factor"`
	ReviewedAt   time.Time     `json:"reviewed_at"`
}

// NewReviewLog builds a log entry from the card state produced by a grade.
func NewReviewLog(graded Card, outcome ReviewOutcome, reviewedAt time.Time) *ReviewLog {
	return &ReviewLog{
		ID:           uuid.New(),
		CardID:       graded.ID,
		Quality:      outcome,
		IntervalDays: graded.IntervalDays,
		EaseFactor:   graded.EaseFactor,
		ReviewedAt:   reviewedAt.UTC(),
	}
}

// ReviewSummary aggregates review log entries over a time window.
type ReviewSummary struct {
	Reviews int `json:"reviews"`
	Lapses  int `json:"lapses"`
}
