// Package events implements the typed event model that crosses the log:
// Move, Input, Status, HeartBeat and Session payloads, and the closed set of
// topics they travel on, per spec.md §3/§6.
package events

// Topic is one of the closed set of log topics. The base four
// (host_tick/peer_tick/heart_beat/session) match the TOPICS constant in
// `original_source/kafka/kafka-script-proxy/src/main.rs`; move/input/status
// are added per spec.md §3/§6.
type Topic string

const (
	HostTick  Topic = "host_tick"
	PeerTick  Topic = "peer_tick"
	HeartBeat Topic = "heart_beat"
	Session   Topic = "session"
	Move      Topic = "move"
	Input     Topic = "input"
	Status    Topic = "status"
)

// Topics enumerates every member of the closed topic set, per spec.md §3.
var Topics = []Topic{HostTick, PeerTick, HeartBeat, Session, Move, Input, Status}

// Valid reports whether t is one of the closed set of topics.
func (t Topic) Valid() bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}
