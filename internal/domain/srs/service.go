package srs

import (
	"fmt"
	"time"

	"github.com/studydev/studydev/internal/domain"
)

// Service defines the interface for SM-2 scheduling operations.
// Implementations are pure: they read no clock and touch no storage.
type Service interface {
	// Grade computes the card's next scheduling state for a review outcome.
	// On ErrInvalidOutcome the card is returned unmodified.
	Grade(card domain.Card, outcome domain.ReviewOutcome, now time.Time) (domain.Card, error)

	// Postpone pushes the card's due date forward by the given number of days.
	Postpone(card domain.Card, days int, now time.Time) (domain.Card, error)

	// NewCard builds an unsaved card carrying the configured initial ease.
	NewCard(subject, front, back string, tags []string, now time.Time) (*domain.Card, error)

	// Params returns the parameters the service was built with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{params: DefaultParams()}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
// The parameters are validated here so Grade never has to.
func NewServiceWithParams(params Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// Grade implements Service.Grade.
func (s *defaultService) Grade(
	card domain.Card,
	outcome domain.ReviewOutcome,
	now time.Time,
) (domain.Card, error) {
	if !outcome.Valid() {
		return card, fmt.Errorf("%w: got %d", ErrInvalidOutcome, int(outcome))
	}

	return calculateNextCard(card, outcome, now, s.params), nil
}

// Postpone implements Service.Postpone.
func (s *defaultService) Postpone(card domain.Card, days int, now time.Time) (domain.Card, error) {
	if days < 1 {
		return card, ErrInvalidDays
	}

	// Overdue cards are postponed relative to today, not to their stale due date.
	base := card.DueDate
	if today := domain.Date(now); base.Before(today) {
		base = today
	}

	next := card.Clone()
	next.DueDate = base.AddDate(0, 0, days)
	next.UpdatedAt = now

	return next, nil
}

// NewCard implements Service.NewCard.
func (s *defaultService) NewCard(
	subject, front, back string,
	tags []string,
	now time.Time,
) (*domain.Card, error) {
	card, err := domain.NewCard(subject, front, back, tags, now)
	if err != nil {
		return nil, err
	}
	card.EaseFactor = s.params.InitialEaseFactor
	return card, nil
}

// Params implements Service.Params.
func (s *defaultService) Params() Params {
	return s.params
}
