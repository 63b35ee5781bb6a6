package srs

import (
	"math"
	"time"

	"github.com/studydev/studydev/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update for a quality grade.
//
// The adjustment is 0.1 - (5-q)*(0.08 + (5-q)*0.02): +0.10 for a perfect
// recall, 0 for q=4, and increasingly negative below that, so lapses erode
// ease faster than hesitant successes. The result is clamped to
// params.MinEaseFactor. There is no ceiling.
func calculateNewEaseFactor(currentEF float64, outcome domain.ReviewOutcome, params Params) float64 {
	miss := float64(domain.QualityPerfect - outcome)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval returns the next interval in days.
//
// repetitions is the streak after this grade has been applied, and easeFactor
// is the freshly updated ease. A lapse always falls back to the lapse
// interval; the first two successes use fixed intervals; later successes
// multiply the previous interval by the ease factor, rounded half away from
// zero.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	outcome domain.ReviewOutcome,
	params Params,
) int {
	if outcome.IsLapse() {
		return params.LapseInterval
	}

	switch repetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		interval := int(math.Round(float64(currentInterval) * easeFactor))
		// A streak imported without history can carry interval 0.
		if interval < 1 {
			interval = 1
		}
		return interval
	}
}

// calculateNextCard produces the card's state after a grade.
//
// The input card is copied, never modified. Every derived field is computed
// from the three arguments plus params, so identical inputs always yield
// identical outputs.
func calculateNextCard(
	card domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
	params Params,
) domain.Card {
	next := card.Clone()

	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, outcome, params)

	if outcome.IsLapse() {
		next.Repetitions = 0
	} else {
		next.Repetitions = card.Repetitions + 1
	}

	next.IntervalDays = calculateNewInterval(
		card.IntervalDays,
		next.Repetitions,
		next.EaseFactor,
		outcome,
		params,
	)

	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.DueDate = domain.Date(now).AddDate(0, 0, next.IntervalDays)
	next.ReviewCount = card.ReviewCount + 1
	next.UpdatedAt = now

	return next
}
