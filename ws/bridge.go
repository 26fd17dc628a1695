package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lguibr/pongrelay/events"
	"github.com/lguibr/pongrelay/metrics"
	"github.com/lguibr/pongrelay/session"
)

// EgressPacing is the minimum yield between egress poll iterations, matching
// `original_source/server/src/websocket_handler.rs`'s
// `sleep(Duration::from_millis(1))` between consumer reads — a workaround
// for the synchronous broker read API, not a tuning knob.
const EgressPacing = time.Millisecond

// Bridge mediates between one websocket connection and one session's log
// partition, per spec.md §4.I.
type Bridge struct {
	Role      Role
	SessionID string

	conn *websocket.Conn
	mgr  *session.Manager
	log  *slog.Logger
}

// NewBridge builds a Bridge for conn, bound to sessionID under role.
func NewBridge(role Role, sessionID string, conn *websocket.Conn, mgr *session.Manager, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{Role: role, SessionID: sessionID, conn: conn, mgr: mgr, log: log}
}

// Run opens a reader/writer pair for the bridge's role and blocks until
// both the ingress and egress pumps have completed, per spec.md §4.I:
// "the session is torn down when both complete".
func (b *Bridge) Run() error {
	reader, writer, err := b.mgr.Split(b.SessionID, b.Role.ReadFilter())
	if err != nil {
		return err
	}
	defer reader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.ingress(writer)
	}()
	go func() {
		defer wg.Done()
		b.egress(reader)
	}()
	wg.Wait()

	return nil
}

// ingress consumes client text frames and appends them to writer under
// their declared topic, per spec.md §4.I.
func (b *Bridge) ingress(writer session.Writer) {
	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.log.Info("ws ingress: connection error, treating as close", "session_id", b.SessionID, "role", b.Role, "error", err)
			}
			b.closeSession("ws closed")
			return
		}
		metrics.BridgeFramesTotal.WithLabelValues("ingress", string(b.Role)).Inc()

		var frame events.SessionEventListDTO
		if err := json.Unmarshal(raw, &frame); err != nil {
			b.log.Warn("ws ingress: malformed frame, dropping", "session_id", b.SessionID, "error", err)
			continue
		}
		if frame.SessionID != b.SessionID {
			b.log.Warn("ws ingress: frame session_id mismatch, dropping", "expected", b.SessionID, "got", frame.SessionID)
			continue
		}

		anyFailed := false
		for _, inner := range frame.Events {
			if !b.Role.CanWrite(inner.Topic) {
				anyFailed = true
				continue
			}
			if err := writer.Write(inner.Topic, inner.Event); err != nil {
				anyFailed = true
			}
		}
		b.log.Debug("ws ingress: batch processed", "session_id", b.SessionID, "events", len(frame.Events), "any_failed", anyFailed)
	}
}

// egress polls reader and streams new events back to the client as a
// single JSON-array text frame per iteration, per spec.md §4.I.
func (b *Bridge) egress(reader session.Reader) {
	for {
		batch, err := reader.Read()
		if err != nil {
			b.log.Warn("ws egress: read failed, dropping batch", "session_id", b.SessionID, "error", err)
		} else if len(batch) > 0 {
			raw, err := json.Marshal(batch)
			if err != nil {
				b.log.Warn("ws egress: marshal failed, dropping batch", "session_id", b.SessionID, "error", err)
			} else if err := b.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				b.log.Info("ws egress: send failed, terminating", "session_id", b.SessionID, "error", err)
				return
			} else {
				metrics.BridgeFramesTotal.WithLabelValues("egress", string(b.Role)).Inc()
			}
		}
		time.Sleep(EgressPacing)
	}
}

// closeSession emits a synthetic Session::Closed event for the bound
// session, per spec.md §4.I's close-frame handling, then closes the
// underlying connection so the egress pump's next send fails and it can
// terminate too.
func (b *Bridge) closeSession(reason string) {
	if _, err := b.mgr.Close(b.SessionID, reason); err != nil {
		b.log.Warn("ws ingress: close on disconnect failed", "session_id", b.SessionID, "error", err)
	}
	b.conn.Close()
}
