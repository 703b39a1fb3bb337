// Package server hosts the cloudadvisor HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/version"
)

// RouteRegistrar is implemented by API handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server is the cloudadvisor HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	gatherer   prometheus.Gatherer
}

// New creates a new Server. gatherer backs GET /metrics; a nil gatherer
// uses the default registry.
func New(cfg Config, logger *zap.Logger, gatherer prometheus.Gatherer, registrars ...RouteRegistrar) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()

	s := &Server{
		logger:   logger,
		mux:      mux,
		gatherer: gatherer,
	}

	s.registerCoreRoutes()
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}

	limiter := newClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := chain(problemRoutes(mux),
		requestID,
		accessLog(logger),
		recoverPanic(logger),
		rateLimit(limiter, logger),
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// problemRoutes answers requests that match no route with problem+json
// instead of the mux's plain-text 404 and 405 bodies.
func problemRoutes(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(&unmatchedWriter{ResponseWriter: w, r: r}, r)
	})
}

// unmatchedWriter replaces the mux's 404 and 405 responses with problems
// and discards their plain-text bodies.
type unmatchedWriter struct {
	http.ResponseWriter
	r       *http.Request
	handled bool
}

func (u *unmatchedWriter) WriteHeader(code int) {
	path := u.r.URL.Path
	switch code {
	case http.StatusNotFound:
		u.handled = true
		NotFound(u.ResponseWriter, "no route for "+path, path)
	case http.StatusMethodNotAllowed:
		u.handled = true
		MethodNotAllowed(u.ResponseWriter, u.r.Method+" is not allowed on "+path, path)
	default:
		u.ResponseWriter.WriteHeader(code)
	}
}

func (u *unmatchedWriter) Write(b []byte) (int, error) {
	if u.handled {
		return len(b), nil
	}
	return u.ResponseWriter.Write(b)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
//
//	@Summary		Health check
//	@Tags			system
//	@Produce		json
//	@Success		200 {object} map[string]any
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cloudadvisor-Version", version.Short())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"service": version.Name,
		"version": version.Map(),
	})
}
