// Package ws implements the websocket<->log bridge: a per-connection
// bidirectional pump that appends client frames to a session's log
// partition and streams new log events back to the client, per spec.md
// §4.I.
package ws

import "github.com/lguibr/pongrelay/events"

// Role is the closed set of bridge connection roles, per spec.md §4.I.
type Role string

const (
	Host     Role = "host"
	Peer     Role = "peer"
	Observer Role = "observer"
)

// ReadFilter returns the topic set a connection of this role is allowed to
// read from the log, per spec.md §4.I.
func (r Role) ReadFilter() []events.Topic {
	switch r {
	case Host:
		return []events.Topic{events.Input, events.Session}
	case Peer:
		return []events.Topic{events.HostTick, events.Input, events.Status, events.Session}
	case Observer:
		return []events.Topic{events.HostTick, events.Input, events.Status, events.Session}
	default:
		return nil
	}
}

// WriteFilter returns the topic set a connection of this role is allowed to
// append to the log, per spec.md §4.I.
func (r Role) WriteFilter() []events.Topic {
	switch r {
	case Host:
		return []events.Topic{events.HostTick, events.Session, events.Status}
	case Peer:
		return []events.Topic{events.Input, events.Session}
	case Observer:
		return []events.Topic{events.Session}
	default:
		return nil
	}
}

// CanWrite reports whether topic is within r's write filter.
func (r Role) CanWrite(topic events.Topic) bool {
	for _, t := range r.WriteFilter() {
		if t == topic {
			return true
		}
	}
	return false
}
