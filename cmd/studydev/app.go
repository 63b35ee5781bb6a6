package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/sqlstore"
	"github.com/studydev/studydev/internal/service"
	"github.com/studydev/studydev/internal/service/card_review"
	"github.com/studydev/studydev/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	logger *slog.Logger
	db     *sqlx.DB
	clock  srs.Clock

	// reviewLimit caps review sessions and API due lists when no limit is given.
	reviewLimit int

	// Stores
	cardStore      store.CardStore
	reviewLogStore store.ReviewLogStore

	// Service interfaces
	srsService        srs.Service
	cardService       service.CardService
	statsService      service.StatsService
	cardReviewService card_review.CardReviewService
}

// openOptions tweak newApplication for commands with special needs.
type openOptions struct {
	// skipSchema leaves the schema alone; used by migrate.
	skipSchema bool
	clock      srs.Clock
}

// newApplication connects to the configured database, brings the schema up to
// date and wires the services.
func newApplication(ctx context.Context, c *cli, opts openOptions) (*application, error) {
	db, err := sqlstore.Open(ctx, c.cfg.Database)
	if err != nil {
		return nil, err
	}

	if !opts.skipSchema {
		if err := sqlstore.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	app := &application{
		logger:      c.logger,
		db:          db,
		clock:       opts.clock,
		reviewLimit: c.cfg.Review.DefaultLimit,
	}
	if app.clock == nil {
		app.clock = srs.SystemClock{}
	}

	app.srsService, err = srs.NewServiceWithParams(c.cfg.SRS.Params())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	app.cardStore = sqlstore.NewCardStore(db, c.logger)
	app.reviewLogStore = sqlstore.NewReviewLogStore(db, c.logger)

	cardRepo := service.NewCardRepositoryAdapter(app.cardStore, db)

	app.cardService, err = service.NewCardService(cardRepo, app.srsService, app.clock, c.logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize card service: %w", err)
	}

	app.statsService, err = service.NewStatsService(
		cardRepo,
		service.NewReviewLogRepositoryAdapter(app.reviewLogStore),
		app.clock,
		c.logger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize stats service: %w", err)
	}

	app.cardReviewService = card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(app.cardStore, db),
		card_review.NewReviewLogRepositoryAdapter(app.reviewLogStore),
		app.srsService,
		app.clock,
		c.logger,
	)

	c.logger.Debug("application initialized", slog.String("driver", c.cfg.Database.Driver))
	return app, nil
}

// cleanup releases the database connection.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}

func (c *cli) open(ctx context.Context) (*application, error) {
	return newApplication(ctx, c, openOptions{clock: c.clock})
}
