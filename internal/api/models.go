package api

import (
	"time"

	"github.com/studydev/studydev/internal/domain"
)

// CardResponse represents the response data for a card
type CardResponse struct {
	ID             int64      `json:"id"`
	Subject        string     `json:"subject"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Tags           []string   `json:"tags"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	ReviewCount    int        `json:"review_count"`
	DueDate        string     `json:"due_date"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CardListResponse wraps a list of cards.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
	Count int            `json:"count"`
}

// SubjectsResponse lists the subjects in use.
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

// GradeRequest is the body of POST /api/cards/{id}/grade. Quality is a
// pointer so a missing field is told apart from a blackout (0).
type GradeRequest struct {
	Quality *int `json:"quality" validate:"required"`
}

// PostponeRequest is the body of POST /api/cards/{id}/postpone.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1,max=3650"`
}

func cardToResponse(card *domain.Card) CardResponse {
	tags := card.Tags
	if tags == nil {
		tags = []string{}
	}
	return CardResponse{
		ID:             card.ID,
		Subject:        card.Subject,
		Front:          card.Front,
		Back:           card.Back,
		Tags:           tags,
		EaseFactor:     card.EaseFactor,
		IntervalDays:   card.IntervalDays,
		Repetitions:    card.Repetitions,
		ReviewCount:    card.ReviewCount,
		DueDate:        card.DueDate.Format(domain.DateLayout),
		LastReviewedAt: card.LastReviewedAt,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func cardsToResponse(cards []domain.Card) CardListResponse {
	out := CardListResponse{Cards: make([]CardResponse, 0, len(cards)), Count: len(cards)}
	for i := range cards {
		out.Cards = append(out.Cards, cardToResponse(&cards[i]))
	}
	return out
}
