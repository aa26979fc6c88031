// Package health provides a simple HTTP health check endpoint.
//
// Docker and Kubernetes probes use this endpoint to monitor the
// daemon's liveness. When the daemon is running and ready to accept
// webhook events, /healthz returns 200 OK along with the number of
// meetings currently tracked.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nadzzz/meetgreet/internal/meeting"
)

// Server is a lightweight HTTP server that exposes /healthz and /readyz.
type Server struct {
	port    int
	ready   atomic.Bool
	tracker *meeting.Tracker
	server  *http.Server
}

// New creates a new health check server.
func New(port int, tracker *meeting.Tracker) *Server {
	return &Server{port: port, tracker: tracker}
}

// SetReady marks the daemon as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

type healthResponse struct {
	Status         string `json:"status"`
	ActiveMeetings int    `json:"active_meetings"`
}

// ListenAndServe starts the health check HTTP server.
// It blocks until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()

	check := func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(healthResponse{Status: "not_ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:         "ok",
			ActiveMeetings: len(s.tracker.ActiveMeetings()),
		})
	}

	mux.HandleFunc("GET /healthz", check)
	mux.HandleFunc("GET /readyz", check)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}
