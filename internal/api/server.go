// Package api serves the pricing core over JSON HTTP, alongside the health,
// readiness and metrics endpoints used by container orchestration.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/fairline/internal/config"
	"github.com/yourusername/fairline/internal/logger"
	"github.com/yourusername/fairline/internal/metrics"
	"github.com/yourusername/fairline/internal/odds"
	"github.com/yourusername/fairline/internal/parlay"
	"golang.org/x/time/rate"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server is the JSON API server.
type Server struct {
	serviceName string
	version     string
	commit      string
	settings    *config.Config
	evaluator   *parlay.Evaluator
	solver      odds.Solver
	validate    *validator.Validate
	limiter     *rate.Limiter
	cache       *ResultCache
	logger      *logrus.Logger
	access      *logger.AccessLogger
	server      *http.Server
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the API server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Settings    *config.Config
	Logger      *logrus.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	name := cfg.ServiceName
	if name == "" {
		name = cfg.Settings.App.Name
	}

	solver := cfg.Settings.SolverSettings()
	apiCfg := cfg.Settings.API

	return &Server{
		serviceName: name,
		version:     cfg.Version,
		commit:      cfg.Commit,
		settings:    cfg.Settings,
		evaluator:   parlay.NewEvaluator(parlay.WithSolver(solver), parlay.WithLogger(log)),
		solver:      solver,
		validate:    newRequestValidator(),
		limiter:     rate.NewLimiter(rate.Limit(apiCfg.RateLimitRPS), apiCfg.RateLimitBurst),
		cache:       NewResultCache(time.Duration(apiCfg.CacheTTLSeconds) * time.Second),
		logger:      log,
		access:      logger.NewAccessLogger(log),
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Router builds the HTTP handler with every route and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.settings.API.RequestTimeoutSeconds) * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.settings.API.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/live", s.handleLive)
	r.Get("/ready", s.handleReady)
	if s.settings.Metrics.Enabled {
		r.Method(http.MethodGet, s.settings.Metrics.Path, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/convert", s.handleConvert)
		r.Post("/margin", s.handleMargin)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.settings.APIAddress(),
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":    s.server.Addr,
			"service": s.serviceName,
		}).Info("API server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.SetReady(true)

	select {
	case err, ok := <-errCh:
		s.SetReady(false)
		if ok {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	s.SetReady(false)
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady handles the /ready endpoint - checks the solver converges with
// the configured bounds.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if err := s.checkSolver(); err != nil {
		allHealthy = false
		checks["solver"] = fmt.Sprintf("error: %v", err)
	} else {
		checks["solver"] = "ok"
	}

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	if allHealthy {
		response.Status = "ok"
		respondJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	respondJSON(w, http.StatusServiceUnavailable, response)
}

// checkSolver devigs a reference market with every iterative method.
func (s *Server) checkSolver() error {
	probs, err := odds.ImpliedProbabilities([]float64{1.91, 2.05})
	if err != nil {
		return err
	}
	margin, err := odds.ComputeMargin([]float64{1.91, 2.05})
	if err != nil {
		return err
	}
	for _, method := range []odds.Method{odds.MethodPower, odds.MethodShin} {
		if _, err := s.solver.Devig(probs, margin, method); err != nil {
			return err
		}
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
