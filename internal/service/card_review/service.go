package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
)

// ReviewAnswer represents a user's answer to a flashcard review.
type ReviewAnswer struct {
	Outcome domain.ReviewOutcome `json:"outcome"` // SM-2 quality, 0-5
}

// CardReviewService runs review sessions: it selects due cards, grades them
// with the scheduler and persists the result together with a review log entry.
type CardReviewService interface {
	// DueCards returns the cards due on the current date, most overdue first,
	// filtered and truncated as described by filter.
	DueCards(ctx context.Context, filter srs.DueFilter) ([]domain.Card, error)

	// NextCard returns the first card of DueCards for the subject (empty for all).
	// Returns ErrNoCardsDue when nothing is due.
	NextCard(ctx context.Context, subject string) (*domain.Card, error)

	// SubmitAnswer grades a card and persists its new scheduling state.
	//
	// The card is loaded, graded, saved and a review log entry appended within a
	// single transaction. An invalid outcome returns ErrInvalidAnswer before any
	// data is read, so the card is left untouched.
	//
	// Returns:
	//   - (*domain.Card, nil): the card as saved
	//   - (nil, ErrInvalidAnswer): quality outside 0-5
	//   - (nil, ErrCardNotFound): no card with that ID
	//   - (nil, error): any other error, wrapped in a ServiceError
	SubmitAnswer(ctx context.Context, cardID int64, answer ReviewAnswer) (*domain.Card, error)

	// Postpone moves a card's due date forward by days (at least 1).
	Postpone(ctx context.Context, cardID int64, days int) (*domain.Card, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that no card is due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrInvalidAnswer indicates an invalid answer was provided.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidPostpone indicates a postpone request with fewer than one day.
	ErrInvalidPostpone = errors.New("invalid postpone request")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "next_card", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitAnswerError returns a new ServiceError for the submit_answer operation.
func NewSubmitAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_answer", Message: message, Err: err}
}

// NewDueCardsError returns a new ServiceError for the due_cards operation.
func NewDueCardsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "due_cards", Message: message, Err: err}
}

// NewPostponeError returns a new ServiceError for the postpone operation.
func NewPostponeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "postpone", Message: message, Err: err}
}
