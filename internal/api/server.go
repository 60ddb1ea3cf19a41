package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sor/internal/api/health"
	"sor/internal/metrics"
	"sor/pkg/errors"
	"sor/pkg/logger"
)

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port        int
	ServiceName string
	Version     string
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg ServerConfig, h *Handlers, healthHandler *health.Handler, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	// Health check endpoints (Kubernetes probes)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("/live", healthHandler.HandleLiveness)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Projects
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("GET /api/projects/{id}", h.GetProject)
	mux.HandleFunc("PUT /api/projects/{id}", h.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.DeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/report", h.GenerateReport)

	// Agents
	mux.HandleFunc("GET /api/agents", h.ListAgents)
	mux.HandleFunc("GET /api/agents/defaults", h.ListDefaultAgents)
	mux.HandleFunc("POST /api/agents", h.CreateAgent)
	mux.HandleFunc("GET /api/agents/{id}", h.GetAgent)
	mux.HandleFunc("PUT /api/agents/{id}", h.UpdateAgent)
	mux.HandleFunc("DELETE /api/agents/{id}", h.DeleteAgent)
	mux.HandleFunc("POST /api/agents/{id}/toggle", h.ToggleAgent)

	// Stages
	mux.HandleFunc("GET /api/projects/{id}/stages", h.ListStages)
	mux.HandleFunc("GET /api/projects/{id}/stages/{stage}", h.GetStage)
	mux.HandleFunc("GET /api/projects/{id}/stages/{stage}/run", h.RunStage)
	mux.HandleFunc("POST /api/projects/{id}/stages/{stage}/approve", h.ApproveStage)
	mux.HandleFunc("PUT /api/projects/{id}/stages/{stage}/override", h.OverrideStage)

	// Documents
	mux.HandleFunc("POST /api/projects/{id}/documents", h.UploadDocument)
	mux.HandleFunc("GET /api/projects/{id}/documents", h.ListDocuments)
	mux.HandleFunc("DELETE /api/projects/{id}/documents/{docID}", h.DeleteDocument)

	// Root endpoint (service info)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"service":"%s","version":"%s","status":"running"}`,
			cfg.ServiceName, cfg.Version)
	})

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// No write timeout: stage runs stream SSE for minutes.
		IdleTimeout: 60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests
// Blocks until server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
// Waits for active connections to complete within timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("✓ HTTP server stopped")
	return nil
}
