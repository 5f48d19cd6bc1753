// Package server runs an HTTP handler until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adamspd/quizdesk/config"
	"github.com/adamspd/quizdesk/utils"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Worker is a background loop that shares the server's lifetime.
type Worker func(ctx context.Context) error

// New builds an http.Server with the configured address and timeouts.
func New(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Run serves srv and the workers until ctx is done or one of them fails,
// then shuts the server down gracefully.
func Run(ctx context.Context, srv *http.Server, workers ...Worker) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.LogStartup("Server ready to accept connections on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	for _, w := range workers {
		g.Go(func() error { return w(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		utils.LogShutdown("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
