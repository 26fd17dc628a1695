package session

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lguibr/pongrelay/broker"
	"github.com/lguibr/pongrelay/events"
)

// fakeWriter is an in-memory Writer recording every event it was asked to
// append, standing in for a broker.Writer in tests.
type fakeWriter struct {
	mu        sync.Mutex
	events    []events.LogEvent
	failAfter int // fail every Write from this call index onward; 0 means never
	calls     int
}

func (w *fakeWriter) Write(topic events.Topic, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.failAfter != 0 && w.calls >= w.failAfter {
		return &broker.TransportFailure{Op: "produce", Err: errWriteFailed}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	w.events = append(w.events, events.LogEvent{Topic: topic, Payload: raw})
	return nil
}

func (w *fakeWriter) Close() error { return nil }

var errWriteFailed = &stubError{"write failed"}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

func newAlwaysSucceedManager(t *testing.T, partitionServer *httptest.Server) (*Manager, *fakeWriter) {
	t.Helper()
	client := broker.NewPartitionManagerClient(partitionServer.URL, nil)
	writer := &fakeWriter{}
	newWriter := func(partition int, key string) (Writer, error) { return writer, nil }
	newReader := func(partition int, filter []events.Topic) (Reader, error) { return nil, nil }
	return NewManager(client, newWriter, newReader, nil), writer
}

func partitionServerReturning(t *testing.T, prevCount string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"data": prevCount})
	}))
}

func TestManager_Create_IncrementsPartitionOnceAndEmitsCreated(t *testing.T) {
	var addPartitionCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addPartitionCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"data": "5"})
	}))
	defer srv.Close()
	mgr, writer := newAlwaysSucceedManager(t, srv)

	sess, err := mgr.Create(Player{ID: "p1", IP: "1.1.1.1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.State != Pending {
		t.Errorf("expected Pending state, got %s", sess.State)
	}
	if sess.ID != 4 {
		t.Errorf("expected partition index 4 (prevCount-1), got %d", sess.ID)
	}
	if n := addPartitionCalls.Load(); n != 1 {
		t.Errorf("expected exactly one add_partition call, got %d", n)
	}
	if len(writer.events) != 1 || writer.events[0].Topic != events.Session {
		t.Fatalf("expected exactly one Session event, got %+v", writer.events)
	}

	var payload events.SessionEventPayload
	if err := writer.events[0].Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.EventType != events.SessionCreated {
		t.Errorf("expected Created event, got %s", payload.EventType)
	}
}

func TestManager_Create_PartitionManagerFailureMutatesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	mgr, _ := newAlwaysSucceedManager(t, srv)

	if _, err := mgr.Create(Player{ID: "p1"}); err == nil {
		t.Fatal("expected error from failing partition manager")
	}
	if len(mgr.sessions) != 0 {
		t.Errorf("expected no session rows after partition-manager failure, got %d", len(mgr.sessions))
	}
}

func TestManager_Create_LogWriteFailureRollsBackTable(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	client := broker.NewPartitionManagerClient(srv.URL, nil)
	writer := &fakeWriter{failAfter: 1}
	newWriter := func(partition int, key string) (Writer, error) { return writer, nil }
	newReader := func(partition int, filter []events.Topic) (Reader, error) { return nil, nil }
	mgr := NewManager(client, newWriter, newReader, nil)

	if _, err := mgr.Create(Player{ID: "p1"}); err == nil {
		t.Fatal("expected error from failing log append")
	}
	if len(mgr.sessions) != 0 {
		t.Errorf("expected table append to be rolled back, got %d sessions", len(mgr.sessions))
	}
}

func TestManager_Join_TransitionsToRunningAndEmitsJoined(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	mgr, writer := newAlwaysSucceedManager(t, srv)

	created, err := mgr.Create(Player{ID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	joined, err := mgr.Join(created.SessionID, Player{ID: "p2"})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.State != Running {
		t.Errorf("expected Running after second join, got %s", joined.State)
	}
	if len(joined.Players) != 2 {
		t.Fatalf("expected two seated players, got %d", len(joined.Players))
	}
	if len(writer.events) != 2 {
		t.Fatalf("expected Created+Joined events, got %d", len(writer.events))
	}
}

func TestManager_Join_ConflictOnAlreadyRunning(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	mgr, _ := newAlwaysSucceedManager(t, srv)

	created, _ := mgr.Create(Player{ID: "p1"})
	if _, err := mgr.Join(created.SessionID, Player{ID: "p2"}); err != nil {
		t.Fatalf("first join: %v", err)
	}

	if _, err := mgr.Join(created.SessionID, Player{ID: "p3"}); err == nil {
		t.Fatal("expected conflict joining an already-Running session")
	}
}

func TestManager_Join_UnknownSessionIsStateViolation(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	mgr, _ := newAlwaysSucceedManager(t, srv)

	_, err := mgr.Join("does-not-exist", Player{ID: "p2"})
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	var violation *StateViolation
	if !errors.As(err, &violation) {
		t.Errorf("expected a *StateViolation, got %T", err)
	}
}

func TestManager_Join_LogFailureDoesNotRollBackSeating(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	client := broker.NewPartitionManagerClient(srv.URL, nil)
	writer := &fakeWriter{failAfter: 2} // Create succeeds, Join's append fails
	newWriter := func(partition int, key string) (Writer, error) { return writer, nil }
	newReader := func(partition int, filter []events.Topic) (Reader, error) { return nil, nil }
	mgr := NewManager(client, newWriter, newReader, nil)

	created, err := mgr.Create(Player{ID: "p1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	joined, err := mgr.Join(created.SessionID, Player{ID: "p2"})
	if err != nil {
		t.Fatalf("expected Join to succeed despite log-append failure, got %v", err)
	}
	if joined.State != Running || len(joined.Players) != 2 {
		t.Errorf("expected seating to stand despite log failure, got %+v", joined)
	}
}

func TestManager_Close_IsIdempotent(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	mgr, _ := newAlwaysSucceedManager(t, srv)

	created, _ := mgr.Create(Player{ID: "p1"})

	first, err := mgr.Close(created.SessionID, "match over")
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
	second, err := mgr.Close(created.SessionID, "match over again")
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if first.State != Closed || second.State != Closed {
		t.Errorf("expected Closed state from both calls, got %s and %s", first.State, second.State)
	}
}

func TestManager_Get_ReturnsClonedSnapshot(t *testing.T) {
	srv := partitionServerReturning(t, "1")
	defer srv.Close()
	mgr, _ := newAlwaysSucceedManager(t, srv)

	created, _ := mgr.Create(Player{ID: "p1"})

	got, ok := mgr.Get(created.SessionID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	got.Players[0].ID = "mutated"

	again, _ := mgr.Get(created.SessionID)
	if again.Players[0].ID == "mutated" {
		t.Error("expected Get to return an independent copy, but mutation leaked into the table")
	}
}

func TestPartitionSessionID_MatchesMD5HexOfDecimalPartition(t *testing.T) {
	want := fmt.Sprintf("%x", md5.Sum([]byte("42")))
	if got := partitionSessionID(42); got != want {
		t.Errorf("partitionSessionID(42) = %s, want %s", got, want)
	}
	if partitionSessionID(42) == partitionSessionID(43) {
		t.Error("expected distinct partitions to hash to distinct session ids")
	}
}
