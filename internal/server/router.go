// Package server exposes the chat session and dataset over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mwiater/beypal/internal/appconfig"
	"github.com/mwiater/beypal/internal/chat"
	"github.com/mwiater/beypal/internal/logging"
)

const (
	// maxUploadBytes bounds dataset uploads.
	maxUploadBytes = 10 << 20
	// handlerGrace keeps the request deadline past the provider deadline.
	handlerGrace = 5 * time.Second
)

// handlerTimeout is the per-request deadline: the model timeout plus handlerGrace.
func handlerTimeout(cfg *appconfig.Config) time.Duration {
	return cfg.RequestTimeout() + handlerGrace
}

// NewRouter creates the API router with all routes configured.
func NewRouter(cfg *appconfig.Config, session *chat.Session) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handlerTimeout(cfg)))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"beypal"}`))
	})

	h := newHandler(session)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", h.getDataset)
		r.Post("/dataset", h.uploadDataset)
		r.Get("/search", h.search)
		r.Post("/ask", h.ask)
		r.Get("/messages", h.messages)
		r.Get("/metrics", h.metrics)
	})

	return r
}

// requestLogger writes one line per request to the application log.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.LogEvent("[HTTP] id=%s %s %s status=%d bytes=%d elapsed=%s",
			chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}

// Serve runs the HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.LogEvent("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
