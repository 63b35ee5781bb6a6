package srs

import (
	"fmt"

	"github.com/studydev/studydev/internal/domain"
)

// Params defines all configurable parameters for the SM-2 scheduler.
type Params struct {
	// Ease factor given to new cards.
	InitialEaseFactor float64
	// Floor below which the ease factor is never allowed to fall.
	MinEaseFactor float64

	// Interval in days after the first and second consecutive successes.
	FirstInterval  int
	SecondInterval int

	// Interval in days after a lapse.
	LapseInterval int
}

// DefaultParams returns the published SM-2 constants.
func DefaultParams() Params {
	return Params{
		InitialEaseFactor: domain.DefaultEaseFactor,
		MinEaseFactor:     domain.MinEaseFactor,
		FirstInterval:     1,
		SecondInterval:    6,
		LapseInterval:     1,
	}
}

// Validate checks the parameters once, at startup.
func (p Params) Validate() error {
	if p.MinEaseFactor <= 1.0 {
		return fmt.Errorf("%w: min ease factor %.2f must be greater than 1.0",
			ErrInvalidParams, p.MinEaseFactor)
	}
	if p.InitialEaseFactor < p.MinEaseFactor {
		return fmt.Errorf("%w: initial ease factor %.2f is below the minimum %.2f",
			ErrInvalidParams, p.InitialEaseFactor, p.MinEaseFactor)
	}
	if p.FirstInterval < 1 {
		return fmt.Errorf("%w: first interval %d must be at least 1 day",
			ErrInvalidParams, p.FirstInterval)
	}
	if p.SecondInterval < p.FirstInterval {
		return fmt.Errorf("%w: second interval %d is shorter than the first %d",
			ErrInvalidParams, p.SecondInterval, p.FirstInterval)
	}
	if p.LapseInterval < 1 {
		return fmt.Errorf("%w: lapse interval %d must be at least 1 day",
			ErrInvalidParams, p.LapseInterval)
	}
	return nil
}
