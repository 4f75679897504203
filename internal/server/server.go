// Package server hands fused review timelines to HTTP clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nguyentantai21042004/telop-review/internal/logger"
	"github.com/nguyentantai21042004/telop-review/internal/metrics"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// NewRouter wires the handler, request logging and metrics.
func NewRouter(h *Handler, log logger.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(RequestMetrics(m))

	r.Get("/healthz", h.Healthz)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	r.Post("/analyses", h.Analyze)

	return r
}

// Run serves handler on addr until ctx is cancelled, then drains
// connections.
func Run(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info(context.Background(), "Server stopped")
	return nil
}
