// Package server provides the JSON HTTP API over the market snapshot and user profiles.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/config"
	"github.com/jonathan/skill-monitor/internal/logging"
	"github.com/jonathan/skill-monitor/internal/metrics"
	"github.com/jonathan/skill-monitor/internal/parsing"
	"github.com/jonathan/skill-monitor/internal/pipeline"
	"github.com/jonathan/skill-monitor/internal/profile"
	"github.com/jonathan/skill-monitor/internal/server/middleware"
	"github.com/jonathan/skill-monitor/internal/types"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// SnapshotLoader returns the latest market snapshot. pipeline.SnapshotSource implements it.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*types.MarketSnapshot, error)
}

// Deps are the services the handlers call
type Deps struct {
	Snapshots   SnapshotLoader
	Profiles    *profile.Service
	Recommender *pipeline.Recommender
	Canon       *parsing.Canonicalizer
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	// Ping reports backend health on /health; nil skips the check
	Ping func(ctx context.Context) error
	// Close releases backends after shutdown
	Close func()
}

// Config holds server configuration
type Config struct {
	Port int
	// JWT enables bearer-token auth on mutating routes; nil leaves them open
	JWT *config.JWTConfig
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *zap.Logger
	jwtService *JWTService
	handler    http.Handler
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Snapshots == nil || deps.Profiles == nil || deps.Recommender == nil {
		return nil, fmt.Errorf("server requires snapshots, profiles and recommender")
	}

	s := &Server{
		deps:   deps,
		logger: logging.OrNop(deps.Logger),
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Market endpoints
	mux.HandleFunc("GET /market/skills", s.handleMarketSkills)
	mux.HandleFunc("GET /market/matrix", s.handleMarketMatrix)
	mux.HandleFunc("GET /market/analysis", s.handleMarketAnalysis)

	// User profile endpoints
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.Handle("PUT /users/{id}", s.protect(s.handleUpdateUser))
	mux.Handle("POST /users/{id}/skills", s.protect(s.handleAddSkills))
	mux.HandleFunc("GET /users/{id}/gap", s.handleGap)
	mux.HandleFunc("GET /users/{id}/scores", s.handleScores)
	mux.Handle("POST /users/{id}/recommendations", s.protect(s.handleRecommend))

	// Simplified registration: profile plus immediate recommendation
	mux.HandleFunc("POST /register", s.handleRegister)

	s.handler = s.withMetrics(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until ctx is done or the process is signaled
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.deps.Close != nil {
		s.deps.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// protect requires a token for the {id} user when auth is configured
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.Authenticate(s.jwtService.AsTokenValidator())(middleware.RequireSelf(h))
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// withMetrics records request counts and latency per route pattern
func (s *Server) withMetrics(next http.Handler) http.Handler {
	if s.deps.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		s.deps.Metrics.ObserveHTTP(r.Method, endpoint, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ping != nil {
		if err := s.deps.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status; internal errors are logged and not echoed
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
