package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/studydev/studydev/internal/api"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "serve")
	addr := fs.String("addr", c.cfg.Server.Addr, "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return usageErrorf("unexpected argument %q", fs.Arg(0))
	}

	app, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer app.cleanup()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", *addr, err)
	}

	fmt.Fprintf(c.stdout, "Serving the studydev API on http://%s\n", listener.Addr())
	return app.serve(ctx, listener)
}

// router builds the HTTP API over the application's services.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Cards:   api.NewCardHandler(app.cardService, app.logger),
		Reviews: api.NewReviewHandler(app.cardReviewService, app.reviewLimit, app.logger),
		Stats:   api.NewStatsHandler(app.statsService),
		Logger:  app.logger,
	})
}

// serve runs the HTTP API on listener until ctx is canceled, then shuts down
// gracefully.
func (app *application) serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           app.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server failed", slog.String("error", err.Error()))
			errCh <- err
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	app.logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	default:
	}

	app.logger.Info("server shutdown completed")
	return nil
}
