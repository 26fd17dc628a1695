package events

// SessionEventType is the closed set of session lifecycle events, per
// spec.md §3/§4.H: Created, Joined, ObserverAdded, Closed.
type SessionEventType string

const (
	SessionCreated       SessionEventType = "Created"
	SessionJoined        SessionEventType = "Joined"
	SessionObserverAdded SessionEventType = "ObserverAdded"
	SessionClosed        SessionEventType = "Closed"
)

// PlayerSnapshot is the wire shape of a seated player, independent of the
// session package's domain type to avoid an events<->session import cycle.
type PlayerSnapshot struct {
	ID   string `json:"id"`
	IP   string `json:"ip"`
	Seat int    `json:"seat"`
}

// ObserverSnapshot is the wire shape of an observer.
type ObserverSnapshot struct {
	ID string `json:"id"`
	IP string `json:"ip"`
}

// SessionSnapshot is the full session state carried on every Session event,
// per spec.md §6 ("session, with full session snapshot").
type SessionSnapshot struct {
	ID        int                `json:"id"`
	SessionID string             `json:"session_id"`
	State     string             `json:"state"`
	Players   []PlayerSnapshot   `json:"players"`
	Observers []ObserverSnapshot `json:"observers"`
}

// ActorSnapshot identifies the actor that triggered a session event.
type ActorSnapshot struct {
	Kind string `json:"kind"` // "Player" or "Observer"
	ID   string `json:"id"`
	IP   string `json:"ip"`
	Seat int    `json:"seat,omitempty"`
}

// SessionEventPayload is the payload carried on the session topic, per
// spec.md §6: event type, full session snapshot, the triggering actor, and a
// human-readable reason.
type SessionEventPayload struct {
	EventType SessionEventType `json:"event_type"`
	Session   SessionSnapshot  `json:"session"`
	Actor     ActorSnapshot    `json:"actor"`
	Reason    string           `json:"reason"`
}
