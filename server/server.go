// Package server implements the HTTP request handler: session create/join/
// get endpoints and the websocket upgrade route, per spec.md §4.J.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lguibr/pongrelay/session"
)

// Server wires the session manager to its external HTTP surface. One
// Server serves a single process's worth of sessions.
type Server struct {
	router *mux.Router
	mgr    *session.Manager
	log    *slog.Logger
	http   *http.Server
}

// NewServer builds a Server bound to addr, routing through mgr.
func NewServer(addr string, mgr *session.Manager, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{mgr: mgr, log: log}
	s.router = mux.NewRouter()
	s.routes()
	s.http = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// routes registers the route table, per spec.md §4.J and SPEC_FULL.md §12's
// supplemented health/metrics endpoints.
func (s *Server) routes() {
	s.router.HandleFunc("/session", s.handleGetSession).Methods(http.MethodGet)
	s.router.HandleFunc("/create_session", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/join_session", s.handleJoinSession).Methods(http.MethodPost)
	s.router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// ListenAndServe starts accepting connections. It blocks until the server
// stops for any reason and returns http.ErrServerClosed on a graceful
// Shutdown.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight
// handlers to finish, per spec.md §5's graceful-shutdown requirement.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleHealthz reports process liveness, distinct from the broker admin
// proxy's own /health_check.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// clientIP extracts the caller's address for use as an Actor's ip field,
// per spec.md §3, falling back to the raw RemoteAddr if it carries no port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
