package api

import (
	"net/http"

	"github.com/studydev/studydev/internal/api/shared"
	"github.com/studydev/studydev/internal/service"
)

// StatsHandler serves deck statistics.
type StatsHandler struct {
	stats service.StatsService
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats service.StatsService) *StatsHandler {
	if stats == nil {
		panic("stats cannot be nil for StatsHandler")
	}
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /api/stats?subject=...; with breakdown=true it
// returns one entry per subject instead.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("breakdown") == "true" {
		breakdown, err := h.stats.SubjectBreakdown(r.Context())
		if err != nil {
			HandleAPIError(w, r, err, "Failed to compute statistics")
			return
		}
		if breakdown == nil {
			breakdown = []service.DeckStats{}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, breakdown)
		return
	}

	stats, err := h.stats.Stats(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
