// Package api exposes the hunt tracker to the presentation layer over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/huntboard/internal/events"
	"git.home.luguber.info/inful/huntboard/internal/metrics"
	"git.home.luguber.info/inful/huntboard/internal/state"
)

// Server represents the API server.
type Server struct {
	Addr           string
	router         *chi.Mux
	server         *http.Server
	tracker        *state.Tracker
	bus            *events.Bus
	recorder       metrics.Recorder
	metricsHandler http.Handler
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithRecorder attaches a metrics recorder for request counting.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithMetricsHandler mounts a handler (e.g. Prometheus) at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// NewServer creates a new API server over the given tracker and event bus.
func NewServer(addr string, tracker *state.Tracker, bus *events.Bus, opts ...Option) *Server {
	s := &Server{
		Addr:     addr,
		router:   chi.NewRouter(),
		tracker:  tracker,
		bus:      bus,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.countRequests)

	// Health check
	s.router.Get("/health", s.handleHealth)

	// Metrics endpoint
	if s.metricsHandler != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}

	// Hunt routes
	s.router.Route("/hunt", func(r chi.Router) {
		r.Get("/", s.handleGetHunt)
		r.Get("/reward", s.handleGetReward)
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)
		r.Get("/items/{id}/photo", s.handleGetPhoto)
		r.Get("/items/{id}/clue", s.handleGetClue)
		r.Post("/items/{id}/found", s.handleMarkFound)
		r.Delete("/items/{id}/found", s.handleClearFound)
		r.Post("/reset", s.handleReset)
		r.Post("/submit", s.handleSubmit)

		// Hunt events (Server-Sent Events)
		r.Get("/events", s.handleEvents)
	})
}

// countRequests records per-route request counters. The SSE endpoint is
// skipped: its response only completes when the client disconnects.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "/hunt/events" {
			return
		}
		s.recorder.IncHTTPRequest(route, r.Method, ww.Status())
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Error writes an error response.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := Response{
		Success: false,
		Error:   message,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Success writes a success response.
func (s *Server) Success(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := Response{
		Success: true,
		Data:    data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
