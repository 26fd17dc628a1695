package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lguibr/pongrelay/broker"
	"github.com/lguibr/pongrelay/events"
	"github.com/lguibr/pongrelay/session"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type recordingWriter struct {
	mu     sync.Mutex
	events []events.LogEvent
}

func (w *recordingWriter) Write(topic events.Topic, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.events = append(w.events, events.LogEvent{Topic: topic, Payload: raw})
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) snapshot() []events.LogEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]events.LogEvent(nil), w.events...)
}

type emptyReader struct{}

func (emptyReader) Read() ([]events.LogEvent, error) { return nil, nil }
func (emptyReader) Close() error                     { return nil }

func newTestManager(t *testing.T, writer *recordingWriter) *session.Manager {
	t.Helper()
	partitionSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"data": "1"})
	}))
	t.Cleanup(partitionSrv.Close)

	client := broker.NewPartitionManagerClient(partitionSrv.URL, nil)
	newWriter := func(partition int, key string) (session.Writer, error) { return writer, nil }
	newReader := func(partition int, filter []events.Topic) (session.Reader, error) { return emptyReader{}, nil }
	return session.NewManager(client, newWriter, newReader, nil)
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestBridge_MismatchedSessionIDIsDropped(t *testing.T) {
	writer := &recordingWriter{}
	mgr := newTestManager(t, writer)
	created, err := mgr.Create(session.Player{ID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		bridge := NewBridge(Peer, created.SessionID, conn, mgr, nil)
		bridge.Run()
	}))
	defer wsSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	frame := events.SessionEventListDTO{
		SessionID: "not-the-bound-session",
		Events: []events.InnerEventDTO{
			{Topic: events.Input, Event: json.RawMessage(`{"player_id":"p1"}`)},
		},
	}
	raw, _ := json.Marshal(frame)
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("send: %v", err)
	}

	// Give the ingress pump time to (not) process the mismatched frame.
	time.Sleep(50 * time.Millisecond)

	got := writer.snapshot()
	if len(got) != 1 || got[0].Topic != events.Session {
		t.Fatalf("expected only the Created event on the log, got %+v", got)
	}
}

func TestBridge_CloseEmitsExactlyOneSessionClosed(t *testing.T) {
	writer := &recordingWriter{}
	mgr := newTestManager(t, writer)
	created, err := mgr.Create(session.Player{ID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		bridge := NewBridge(Peer, created.SessionID, conn, mgr, nil)
		bridge.Run()
	}))
	defer wsSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	waitFor(t, time.Second, func() bool {
		sess, ok := mgr.Get(created.SessionID)
		return ok && sess.State == session.Closed
	})

	closedCount := 0
	for _, logEvent := range writer.snapshot() {
		if logEvent.Topic != events.Session {
			continue
		}
		var payload events.SessionEventPayload
		if err := logEvent.Decode(&payload); err == nil && payload.EventType == events.SessionClosed {
			closedCount++
		}
	}
	if closedCount != 1 {
		t.Errorf("expected exactly one Session::Closed event, got %d", closedCount)
	}
}
