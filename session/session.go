// Package session owns the in-memory session table, the log-partition
// allocator, and the state machine governing who may join, play, or
// observe, per spec.md §4.H.
package session

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"github.com/lguibr/pongrelay/events"
)

// State is the closed set of session lifecycle states, per spec.md §3.
type State string

const (
	Pending State = "Pending"
	Running State = "Running"
	Closed  State = "Closed"
)

// Player is one of up to two seated players.
type Player struct {
	ID   string
	IP   string
	Seat int
}

// Observer is a spectating connection.
type Observer struct {
	ID string
	IP string
}

// Session is a logical two-player match and the unit of log-partition
// ownership, per spec.md §3.
type Session struct {
	ID        int
	SessionID string
	State     State
	Players   []Player
	Observers []Observer
}

// partitionSessionID derives the public, md5-hex session id from a
// partition integer, per spec.md §4.H/§6.
func partitionSessionID(partition int) string {
	sum := md5.Sum([]byte(strconv.Itoa(partition)))
	return hex.EncodeToString(sum[:])
}

// Snapshot converts s into the wire shape carried on Session events.
func (s Session) Snapshot() events.SessionSnapshot {
	players := make([]events.PlayerSnapshot, len(s.Players))
	for i, p := range s.Players {
		players[i] = events.PlayerSnapshot{ID: p.ID, IP: p.IP, Seat: p.Seat}
	}
	observers := make([]events.ObserverSnapshot, len(s.Observers))
	for i, o := range s.Observers {
		observers[i] = events.ObserverSnapshot{ID: o.ID, IP: o.IP}
	}
	return events.SessionSnapshot{
		ID:        s.ID,
		SessionID: s.SessionID,
		State:     string(s.State),
		Players:   players,
		Observers: observers,
	}
}

// clone returns a deep copy so callers cannot mutate the manager's table
// through a returned snapshot.
func (s Session) clone() Session {
	out := s
	out.Players = append([]Player(nil), s.Players...)
	out.Observers = append([]Observer(nil), s.Observers...)
	return out
}
