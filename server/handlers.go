package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lguibr/pongrelay/events"
	"github.com/lguibr/pongrelay/session"
	"github.com/lguibr/pongrelay/ws"
)

// upgrader accepts every origin: the session service is consumed by a
// browser client hosted on a different origin than the Go backend, per
// spec.md §1's external browser-client collaborator.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dataEnvelope and errorEnvelope mirror the {"data": ...}/{"error": ...}
// response shapes spec.md §4.J/§6 specify for every session-service route.
type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: msg})
}

// sessionEvent rebuilds the event-shaped response a successful create/join
// call emits to the log, mirroring events.SessionEventPayload so the caller
// sees exactly what was appended.
func sessionEvent(eventType events.SessionEventType, sess session.Session, actor events.ActorSnapshot, reason string) events.SessionEventPayload {
	return events.SessionEventPayload{
		EventType: eventType,
		Session:   sess.Snapshot(),
		Actor:     actor,
		Reason:    reason,
	}
}

// handleGetSession implements `GET /session?session_id=<hex>`, per spec.md
// §6.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session_id")
		return
	}
	sess, ok := s.mgr.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeData(w, http.StatusOK, sess.Snapshot())
}

// handleCreateSession implements `POST /create_session`, per spec.md §6.
// The caller becomes the session's first (seat-1) player, identified by a
// freshly generated actor id, per spec.md §3.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	player := session.Player{ID: uuid.NewString(), IP: clientIP(r), Seat: 1}

	sess, err := s.mgr.Create(player)
	if err != nil {
		s.log.Error("create_session failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	actor := events.ActorSnapshot{Kind: "Player", ID: player.ID, IP: player.IP, Seat: player.Seat}
	writeData(w, http.StatusOK, sessionEvent(events.SessionCreated, sess, actor, "session created"))
}

type joinSessionRequest struct {
	SessionID string `json:"session_id"`
}

// handleJoinSession implements `POST /join_session`, per spec.md §6. The
// caller becomes the session's second player.
func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	var req joinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session_id")
		return
	}

	player := session.Player{ID: uuid.NewString(), IP: clientIP(r)}
	sess, err := s.mgr.Join(req.SessionID, player)
	if err != nil {
		var violation *session.StateViolation
		if errors.As(err, &violation) {
			writeError(w, http.StatusConflict, violation.Reason)
			return
		}
		s.log.Error("join_session failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	seat := 2
	for _, p := range sess.Players {
		if p.ID == player.ID {
			seat = p.Seat
			break
		}
	}
	actor := events.ActorSnapshot{Kind: "Player", ID: player.ID, IP: player.IP, Seat: seat}
	writeData(w, http.StatusOK, sessionEvent(events.SessionJoined, sess, actor, "second player joined"))
}

// handleWebSocket implements `GET /ws?role=host|peer|observer&session_id=
// <hex>`, per spec.md §4.I/§4.J: validate the query parameters, then hand
// off to the websocket bridge for the rest of the connection's lifetime.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session_id")
		return
	}

	role := ws.Role(r.URL.Query().Get("role"))
	switch role {
	case ws.Host, ws.Peer, ws.Observer:
	default:
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", "session_id", sessionID, "role", role, "error", err)
		return
	}

	bridge := ws.NewBridge(role, sessionID, conn, s.mgr, s.log)
	if err := bridge.Run(); err != nil {
		s.log.Warn("bridge exited with error", "session_id", sessionID, "role", role, "error", err)
	}
}
