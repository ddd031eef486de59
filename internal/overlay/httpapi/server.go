// Package httpapi exposes the overlay service over HTTP: health and metrics
// probes, the overlay state document, a Server-Sent Events stream for the
// browser overlay, and the operator command endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripcast-io/tripcast/internal/overlay/control"
	"github.com/tripcast-io/tripcast/internal/overlay/loop"
	"github.com/tripcast-io/tripcast/internal/pkg/metrics"
	"github.com/tripcast-io/tripcast/pkg/log"
	"github.com/tripcast-io/tripcast/pkg/options"
)

// Server serves the overlay HTTP API.
type Server struct {
	srv     *http.Server
	network string
	store   *loop.Store
	ctrl    *control.Controller
	hub     *hub
	logger  log.Logger

	// staleAfter is the display age past which frames are flagged stale.
	staleAfter time.Duration
}

// NewServer wires the router and returns a startable server.
func NewServer(opts *options.HttpOptions, store *loop.Store, ctrl *control.Controller, staleAfter time.Duration) *Server {
	s := &Server{
		network:    opts.Network,
		store:      store,
		ctrl:       ctrl,
		hub:        newHub(),
		logger:     log.WithName("httpapi"),
		staleAfter: staleAfter,
	}

	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/overlay", s.handleOverlay).Methods(http.MethodGet)
	api.HandleFunc("/overlay/stream", s.handleStream).Methods(http.MethodGet)
	api.HandleFunc("/commands", s.handleListCommands).Methods(http.MethodGet)
	api.HandleFunc("/commands/{name}", s.handleInvokeCommand).Methods(http.MethodPost)

	s.srv = &http.Server{
		Addr:    opts.Addr,
		Handler: r,
		// No WriteTimeout: the SSE stream is intentionally long-lived.
		ReadHeaderTimeout: opts.Timeout,
		IdleTimeout:       opts.Timeout,
	}

	return s
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", "network", s.network, "addr", s.srv.Addr)

	ln, err := net.Listen(s.network, s.srv.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

// BroadcastFrame pushes the current overlay state to all stream subscribers.
// Wired as the update loop's and controller's change callback.
func (s *Server) BroadcastFrame() {
	state := s.currentState()
	payload, err := json.Marshal(state)
	if err != nil {
		s.logger.Error(err, "Failed to encode overlay frame")
		return
	}
	s.hub.broadcast(payload)
}

func (s *Server) currentState() OverlayState {
	state := OverlayState{
		Feedback:   s.ctrl.Feedback(),
		PanelState: s.ctrl.State(),
	}

	if u, at, ok := s.store.Snapshot(); ok {
		state.Visual = &u
		state.UpdatedAt = at
		state.Stale = s.staleAfter > 0 && time.Since(at) > s.staleAfter
	}

	return state
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
