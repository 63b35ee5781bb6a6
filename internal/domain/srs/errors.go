package srs

import (
	"errors"
	"fmt"

	"github.com/studydev/studydev/internal/domain"
)

// Common errors
var (
	// ErrInvalidOutcome is returned by Grade for a quality outside 0-5.
	ErrInvalidOutcome = fmt.Errorf("%w: quality must be between 0 and 5", domain.ErrInvalidReviewOutcome)

	// ErrInvalidDays is returned by Postpone for a non-positive day count.
	ErrInvalidDays = errors.New("postpone days must be at least 1")

	// ErrInvalidParams is returned when scheduler parameters fail validation.
	ErrInvalidParams = errors.New("invalid scheduler parameters")
)
