// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/jobs"
	"github.com/clauselens/clauselens/internal/logger"
	"github.com/clauselens/clauselens/internal/pipeline"
	"github.com/clauselens/clauselens/internal/scoring"
	"github.com/clauselens/clauselens/internal/web"
	"github.com/clauselens/clauselens/internal/websocket"
)

// CategoryCounter reports archived clause totals per risk category. The
// Postgres archive implements it; a nil counter hides the totals from /info.
type CategoryCounter interface {
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

// Server wires the HTTP API around the scorer and the pipeline.
type Server struct {
	config   *config.Config
	logger   *logger.Logger
	scorer   *scoring.Scorer
	pipeline *pipeline.Pipeline
	store    jobs.Store
	archive  CategoryCounter
	router   *mux.Router
	server   *http.Server
	wsHub    *websocket.Hub
	limiter  *ipRateLimiter
}

// New creates a server around already-constructed collaborators.
func New(cfg *config.Config, scorer *scoring.Scorer, pipe *pipeline.Pipeline, store jobs.Store, archive CategoryCounter, hub *websocket.Hub, log *logger.Logger) *Server {
	router := mux.NewRouter()

	server := &Server{
		config:   cfg,
		logger:   log.WithComponent("server"),
		scorer:   scorer,
		pipeline: pipe,
		store:    store,
		archive:  archive,
		router:   router,
		wsHub:    hub,
		limiter:  newIPRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// Dashboard endpoint - embedded HTML
	s.router.HandleFunc("/", web.ServeDashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", web.ServeDashboard).Methods("GET")

	// WebSocket endpoint for dashboard
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")

	// Analysis API
	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/documents", s.handleUpload).Methods("POST")
	api.HandleFunc("/documents/{id}", s.handleGetDocument).Methods("GET")
	api.HandleFunc("/documents/{id}/ask", s.handleAsk).Methods("POST")
	api.HandleFunc("/score", s.handleScore).Methods("POST")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting ClauseLens server",
		zap.Int("port", s.config.Server.Port),
		zap.Int("workers", s.config.Analysis.Workers),
		zap.Bool("rate_limit", s.config.Server.RateLimit.Enabled),
	)

	// Start WebSocket hub in a separate goroutine
	go s.wsHub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ClauseLens server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	stats := s.pipeline.GetStats()

	info := map[string]interface{}{
		"name":                "clauselens",
		"version":             "0.1.0",
		"documents_submitted": stats.DocumentsSubmitted,
		"documents_completed": stats.DocumentsCompleted,
		"clauses_scored":      stats.ClausesScored,
		"clauses_flagged":     stats.ClausesFlagged,
	}

	if s.archive != nil {
		// Archive totals are best-effort; /info stays up when Postgres is
		// unreachable.
		counts, err := s.archive.CategoryCounts(r.Context())
		if err != nil {
			s.logger.Warn("Failed to load archive category counts", zap.Error(err))
		} else {
			info["archived_categories"] = counts
		}
	}

	writeJSON(w, http.StatusOK, info)
}

// handleWebSocket handles WebSocket connections for the dashboard
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// GetWebSocketHub returns the WebSocket hub for broadcasting events
func (s *Server) GetWebSocketHub() *websocket.Hub {
	return s.wsHub
}
