// Package server provides the JSON HTTP API for the match service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skillmatch/internal/common/config"
	"skillmatch/internal/common/logger"
	"skillmatch/internal/search"
)

// HealthCheck pings one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Server wires the search service into HTTP routes.
type Server struct {
	httpServer *http.Server
	svc        *search.Service
	categories search.CategoryLister
	stats      search.FrequencyReader
	health     map[string]HealthCheck
	logger     logger.Logger
}

func New(cfg config.ServerConfig, svc *search.Service, categories search.CategoryLister, stats search.FrequencyReader, health map[string]HealthCheck, log logger.Logger) *Server {
	s := &Server{
		svc:        svc,
		categories: categories,
		stats:      stats,
		health:     health,
		logger:     log.WithFields(map[string]interface{}{"component": "http"}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/skills/categories", s.handleSkillCategories)
	mux.HandleFunc("POST /api/v1/search/statistics", s.handleStatistics)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.withRequestID(s.withLogging(mux)),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server starting", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withRequestID tags every request with an id, echoed back in the
// X-Request-ID header so clients can correlate logs.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"requestId": w.Header().Get("X-Request-ID"),
			"elapsedMs": time.Since(start).Milliseconds(),
		})
	})
}
