package session

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/lguibr/pongrelay/broker"
	"github.com/lguibr/pongrelay/events"
	"github.com/lguibr/pongrelay/metrics"
)

// Writer appends events to one session's bound partition. broker.Writer
// satisfies this; tests substitute an in-memory fake.
type Writer interface {
	Write(topic events.Topic, payload any) error
	Close() error
}

// Reader polls one session's bound partition under a topic filter.
// broker.Reader satisfies this.
type Reader interface {
	Read() ([]events.LogEvent, error)
	Close() error
}

// WriterFactory opens a new Writer bound to partition, keyed by key (the
// partition id, decimal). One is called at most once per session; the
// manager caches the result.
type WriterFactory func(partition int, key string) (Writer, error)

// ReaderFactory opens a new Reader bound to partition under filter. Called
// once per Split — readers are not cached, since each websocket connection
// tracks its own read position.
type ReaderFactory func(partition int, filter []events.Topic) (Reader, error)

// Manager owns the in-memory session table and is the sole producer of
// Session events to the log, per spec.md §4.H. Single-threaded semantics
// are enforced by one enclosing mutex guarding the entire table, per
// spec.md §5 — every operation below holds mu for its whole duration,
// including the add_partition call in Create, which spec.md §5 accepts as
// a deliberate design simplification.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	writers  map[string]Writer

	partitions *broker.PartitionManagerClient
	newWriter  WriterFactory
	newReader  ReaderFactory
	log        *slog.Logger
}

// NewManager builds a Manager bound to the given partition-admin client and
// log-broker connection factories.
func NewManager(partitions *broker.PartitionManagerClient, newWriter WriterFactory, newReader ReaderFactory, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		writers:    make(map[string]Writer),
		partitions: partitions,
		newWriter:  newWriter,
		newReader:  newReader,
		log:        log,
	}
}

// Create allocates a fresh partition, builds a Pending session owned by
// player, and emits Session::Created, per spec.md §4.H. On partition
// manager failure no state is mutated; on log-write failure the table
// append is rolled back.
func (m *Manager) Create(player Player) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prevCount, err := m.partitions.AddPartition()
	if err != nil {
		return Session{}, err
	}
	partition := int(prevCount) - 1

	sessionID := partitionSessionID(partition)
	sess := &Session{
		ID:        partition,
		SessionID: sessionID,
		State:     Pending,
		Players:   []Player{player},
		Observers: nil,
	}
	m.sessions[sessionID] = sess

	writer, err := m.writerFor(sessionID, partition)
	if err != nil {
		delete(m.sessions, sessionID)
		return Session{}, err
	}

	payload := events.SessionEventPayload{
		EventType: events.SessionCreated,
		Session:   sess.Snapshot(),
		Actor:     events.ActorSnapshot{Kind: "Player", ID: player.ID, IP: player.IP, Seat: player.Seat},
		Reason:    "session created",
	}
	if err := writer.Write(events.Session, payload); err != nil {
		delete(m.sessions, sessionID)
		delete(m.writers, sessionID)
		return Session{}, err
	}

	metrics.ActiveSessions.Inc()
	metrics.SessionEventsTotal.WithLabelValues(string(events.SessionCreated)).Inc()

	return sess.clone(), nil
}

// Join seats a second player into a Pending session and transitions it to
// Running, per spec.md §4.H. A log-write failure here is logged but does
// not roll back the seating — the log is the source of truth once a
// mutation has landed in the table, per spec.md §7.
func (m *Manager) Join(sessionID string, player Player) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "unknown session"}
	}
	if sess.State != Pending {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "session is not pending"}
	}
	if len(sess.Players) >= 2 {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "session already has two players"}
	}
	for _, existing := range sess.Players {
		if existing.ID == player.ID {
			return Session{}, &StateViolation{SessionID: sessionID, Reason: "player already seated"}
		}
	}

	player.Seat = len(sess.Players) + 1
	sess.Players = append(sess.Players, player)
	sess.State = Running

	if writer, err := m.writerFor(sessionID, sess.ID); err != nil {
		m.log.Error("join: no writer for session", "session_id", sessionID, "error", err)
	} else {
		payload := events.SessionEventPayload{
			EventType: events.SessionJoined,
			Session:   sess.Snapshot(),
			Actor:     events.ActorSnapshot{Kind: "Player", ID: player.ID, IP: player.IP, Seat: player.Seat},
			Reason:    "second player joined",
		}
		if err := writer.Write(events.Session, payload); err != nil {
			m.log.Error("join: log append failed", "session_id", sessionID, "error", err)
		}
	}
	metrics.SessionEventsTotal.WithLabelValues(string(events.SessionJoined)).Inc()

	return sess.clone(), nil
}

// AddObserver seats an observer into a Pending or Running session, per
// spec.md §4.H.
func (m *Manager) AddObserver(sessionID string, observer Observer) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "unknown session"}
	}
	if sess.State == Closed {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "session is closed"}
	}

	sess.Observers = append(sess.Observers, observer)

	if writer, err := m.writerFor(sessionID, sess.ID); err != nil {
		m.log.Error("add_observer: no writer for session", "session_id", sessionID, "error", err)
	} else {
		payload := events.SessionEventPayload{
			EventType: events.SessionObserverAdded,
			Session:   sess.Snapshot(),
			Actor:     events.ActorSnapshot{Kind: "Observer", ID: observer.ID, IP: observer.IP},
			Reason:    "observer added",
		}
		if err := writer.Write(events.Session, payload); err != nil {
			m.log.Error("add_observer: log append failed", "session_id", sessionID, "error", err)
		}
	}
	metrics.SessionEventsTotal.WithLabelValues(string(events.SessionObserverAdded)).Inc()

	return sess.clone(), nil
}

// Close transitions a session to Closed and emits Session::Closed.
// Idempotent: closing an already-closed session is a no-op that returns
// the current snapshot.
func (m *Manager) Close(sessionID string, reason string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, &StateViolation{SessionID: sessionID, Reason: "unknown session"}
	}
	if sess.State == Closed {
		return sess.clone(), nil
	}

	sess.State = Closed

	if writer, err := m.writerFor(sessionID, sess.ID); err != nil {
		m.log.Error("close: no writer for session", "session_id", sessionID, "error", err)
	} else {
		payload := events.SessionEventPayload{
			EventType: events.SessionClosed,
			Session:   sess.Snapshot(),
			Reason:    reason,
		}
		if err := writer.Write(events.Session, payload); err != nil {
			m.log.Error("close: log append failed", "session_id", sessionID, "error", err)
		}
	}

	if w, ok := m.writers[sessionID]; ok {
		if err := w.Close(); err != nil {
			m.log.Warn("close: writer close failed", "session_id", sessionID, "error", err)
		}
		delete(m.writers, sessionID)
	}
	metrics.ActiveSessions.Dec()
	metrics.SessionEventsTotal.WithLabelValues(string(events.SessionClosed)).Inc()

	return sess.clone(), nil
}

// Get returns a copy of the named session and whether it exists.
func (m *Manager) Get(sessionID string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return sess.clone(), true
}

// Split returns a per-session reader bound to filter and the session's
// cached writer, per spec.md §4.H.
func (m *Manager) Split(sessionID string, filter []events.Topic) (Reader, Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil, &StateViolation{SessionID: sessionID, Reason: "unknown session"}
	}

	reader, err := m.newReader(sess.ID, filter)
	if err != nil {
		return nil, nil, err
	}

	writer, err := m.writerFor(sessionID, sess.ID)
	if err != nil {
		reader.Close()
		return nil, nil, err
	}

	return reader, writer, nil
}

// writerFor returns the cached writer for sessionID, opening a new one and
// caching it on first use. Callers must hold m.mu.
func (m *Manager) writerFor(sessionID string, partition int) (Writer, error) {
	if w, ok := m.writers[sessionID]; ok {
		return w, nil
	}
	writer, err := m.newWriter(partition, strconv.Itoa(partition))
	if err != nil {
		return nil, err
	}
	m.writers[sessionID] = writer
	return writer, nil
}
