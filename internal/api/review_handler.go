package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/studydev/studydev/internal/api/shared"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/logger"
	"github.com/studydev/studydev/internal/service/card_review"
)

// ReviewHandler exposes the review session over HTTP.
type ReviewHandler struct {
	reviews      card_review.CardReviewService
	defaultLimit int
	logger       *slog.Logger
}

// NewReviewHandler creates a ReviewHandler. defaultLimit caps the due list
// when the request does not pass one; 0 means unlimited.
func NewReviewHandler(
	reviews card_review.CardReviewService,
	defaultLimit int,
	logger *slog.Logger,
) *ReviewHandler {
	if reviews == nil {
		panic("reviews cannot be nil for ReviewHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews:      reviews,
		defaultLimit: defaultLimit,
		logger:       logger.With(slog.String("component", "review_handler")),
	}
}

// DueCards handles GET /api/reviews/due?subject=...&limit=...
func (h *ReviewHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryLimit(r, h.defaultLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.reviews.DueCards(r.Context(), srs.DueFilter{
		Subject: r.URL.Query().Get("subject"),
		Limit:   limit,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// NextCard handles GET /api/reviews/next?subject=...
// It answers 204 No Content when nothing is due.
func (h *ReviewHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	subject := r.URL.Query().Get("subject")

	card, err := h.reviews.NextCard(r.Context(), subject)
	if errors.Is(err, card_review.ErrNoCardsDue) {
		log.Debug("no cards due for review", slog.String("subject", subject))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// GradeCard handles POST /api/cards/{id}/grade
func (h *ReviewHandler) GradeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.reviews.SubmitAnswer(r.Context(), id, card_review.ReviewAnswer{
		Outcome: domain.ReviewOutcome(*req.Quality),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("card graded via API",
		slog.Int64("card_id", id),
		slog.Int("quality", *req.Quality),
		slog.String("due_date", card.DueDate.Format(domain.DateLayout)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PostponeCard handles POST /api/cards/{id}/postpone
func (h *ReviewHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.reviews.Postpone(r.Context(), id, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
