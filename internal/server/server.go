// Package server provides the HTTP server for the Tulika painter.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/tulika/internal/app"
	"github.com/ayusman/tulika/internal/server/api"
	"github.com/ayusman/tulika/internal/store"
)

// Painter is the running application as seen by the server.
type Painter interface {
	api.Painter
	LatestFrame() []byte
	Subscribe() (<-chan app.Event, func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Painter   Painter
	// StreamInterval is the delay between MJPEG frames. Zero uses DefaultStreamInterval.
	StreamInterval time.Duration
}

// Server represents the HTTP server for the Tulika application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	http   *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		drawings := api.NewDrawingHandler(s.config.Store)
		s.mux.Handle("/api/drawings", drawings)
		s.mux.Handle("/api/drawings/", drawings)
	}

	if p := s.config.Painter; p != nil {
		commands := api.NewCommandHandler(p)
		s.mux.Handle("/api/commands", commands)
		s.mux.Handle("/api/commands/", commands)
		s.mux.Handle("/api/status", api.NewStatusHandler(p))
		s.mux.Handle("/api/canvas", api.NewCanvasHandler(p))
		s.mux.Handle("/api/stream", NewStreamHandler(p, s.config.StreamInterval))
		s.mux.Handle("/api/events", NewEventsHandler(p))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns
// http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown stops a server started with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
