package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dchouse/nanodash/pkg/dashboard"
	"github.com/dchouse/nanodash/pkg/log"
	"github.com/dchouse/nanodash/pkg/metrics"
)

// Server exposes the dashboard panels as a JSON API.
type Server struct {
	dashboard *dashboard.Service

	listenAddr  string
	serverName  string
	cacheMaxAge time.Duration
	pingTimeout time.Duration
	httpServer  *http.Server
}

// Configured initializes the Server around the dashboard service.
// It uses lflag to register command-line flags for configuration.
func Configured(d *dashboard.Service) *Server {
	srv := &Server{
		dashboard:   d,
		serverName:  "nanodash",
		pingTimeout: 5 * time.Second,
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	cacheMaxAge := lflag.Duration("http-cache-max-age", time.Minute, "Cache-Control max-age for API responses. 0 disables caching.")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.cacheMaxAge = *cacheMaxAge
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /api/consumption", s.handleConsumption)
	s.handle(mux, "GET /api/metrics", s.handleMetrics)
	s.handle(mux, "GET /api/savings", s.handleSavings)
	s.handle(mux, "GET /api/bill", s.handleBill)
	s.handle(mux, "GET /api/devices", s.handleDevices)
	s.handle(mux, "GET /api/series/{measurement}", s.handleSeries)
	s.handle(mux, "GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.revisionMiddleware(gziphandler.GzipHandler(s.securityHeadersMiddleware(mux)))
}

// handle registers h under pattern, counting and timing requests with the
// pattern as the route label. Every log line of the request carries the route.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	route := prometheus.Labels{"route": pattern}
	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(log.WithAttrs(r.Context(), slog.String("route", pattern))))
	})
	mux.Handle(pattern, promhttp.InstrumentHandlerDuration(
		metrics.RequestDuration.MustCurryWith(route),
		promhttp.InstrumentHandlerCounter(metrics.RequestsTotal.MustCurryWith(route), logged),
	))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.pingTimeout)
	defer cancel()
	if err := s.dashboard.Ping(ctx); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "health check failed", slog.Any("error", err))
		writeJSONError(w, "query source unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
