package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/studydev/studydev/internal/api/middleware"
)

// RouterConfig carries the handlers and settings the router is built from.
type RouterConfig struct {
	Cards   *CardHandler
	Reviews *ReviewHandler
	Stats   *StatsHandler
	Logger  *slog.Logger
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", cfg.Cards.ListCards)
		r.Post("/cards", cfg.Cards.CreateCard)
		r.Get("/cards/{id}", cfg.Cards.GetCard)
		r.Put("/cards/{id}", cfg.Cards.UpdateCard)
		r.Delete("/cards/{id}", cfg.Cards.DeleteCard)
		r.Get("/subjects", cfg.Cards.ListSubjects)

		r.Get("/reviews/due", cfg.Reviews.DueCards)
		r.Get("/reviews/next", cfg.Reviews.NextCard)
		r.Post("/cards/{id}/grade", cfg.Reviews.GradeCard)
		r.Post("/cards/{id}/postpone", cfg.Reviews.PostponeCard)

		r.Get("/stats", cfg.Stats.GetStats)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
