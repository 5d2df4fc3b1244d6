package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/huntboard/internal/events"
)

// handleEvents handles SSE connections for hunt progress events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		s.Error(w, r, http.StatusNotImplemented, "event streaming is not enabled")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable Nginx buffering

	eventCh, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	slog.Info("Hunt event stream opened")

	// Send initial connection event
	s.sendSSEEvent(w, events.Event{
		Type:       "connected",
		FoundCount: s.tracker.FoundCount(),
		Total:      s.tracker.Total(),
		Message:    "Connected to hunt event stream",
		Timestamp:  time.Now(),
	})

	done := r.Context().Done()
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-done:
			slog.Info("Hunt event stream closed (client disconnect)")
			return

		case <-keepalive.C:
			// Comment line keeps intermediaries from timing the stream out.
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case event, ok := <-eventCh:
			if !ok {
				slog.Info("Hunt event stream closed (channel closed)")
				return
			}
			s.sendSSEEvent(w, event)
		}
	}
}

// sendSSEEvent sends an event in SSE format.
func (s *Server) sendSSEEvent(w http.ResponseWriter, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal SSE event", "error", err)
		return
	}

	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
