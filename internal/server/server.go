package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/specstudio/internal/backend"
)

// Config holds server configuration.
type Config struct {
	Port       int
	AllowAll   bool          // allow all CORS origins (dev mode)
	BackendURL string        // reported by /config/status
	Timeout    time.Duration // per-request limit; zero means none
}

// StatusProber reports the generation service's configuration.
type StatusProber interface {
	Status(ctx context.Context) (*backend.Status, error)
}

// Server is the HTTP shell around the workbench UI.
type Server struct {
	cfg        Config
	prober     StatusProber
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. Feature packages mount their routes on Router.
func New(cfg Config, prober StatusProber) *Server {
	s := &Server{cfg: cfg, prober: prober}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with the ops routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.cfg.Timeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Timeout))
	}

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Specstudio-Fragment"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/config/status", s.handleStatus)

	return r
}

// statusResponse is the JSON response for /config/status.
type statusResponse struct {
	Status       string          `json:"status"`
	BackendURL   string          `json:"backend_url"`
	Backend      *backend.Status `json:"backend,omitempty"`
	BackendError string          `json:"backend_error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: "ok", BackendURL: s.cfg.BackendURL}
	if s.prober != nil {
		st, err := s.prober.Status(r.Context())
		if err != nil {
			log.Printf("server: backend status: %v", err)
			resp.Status = "degraded"
			resp.BackendError = err.Error()
		}
		resp.Backend = st
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. No write timeout is set:
// generation calls and the editor websocket may run long.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("specstudio listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
