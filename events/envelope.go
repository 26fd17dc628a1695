package events

import "encoding/json"

// LogEvent is the transport envelope appended to and read from a session's
// log partition, per spec.md §3. Payload is the serialized event for the
// envelope's topic; (de)serialization of the envelope itself is an external
// collaborator's concern per spec.md §1, so LogEvent only carries the bytes
// round-trip — it does not interpret them.
type LogEvent struct {
	Topic   Topic           `json:"topic"`
	Key     string          `json:"key,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// NewLogEvent marshals payload and wraps it for the given topic and
// partition key. The partition key on every non-session append is the
// session's partition id as a decimal string, per spec.md §6.
func NewLogEvent(topic Topic, key string, payload any) (LogEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return LogEvent{}, err
	}
	return LogEvent{Topic: topic, Key: key, Payload: raw}, nil
}

// Decode unmarshals the envelope's payload into dst.
func (e LogEvent) Decode(dst any) error {
	return json.Unmarshal(e.Payload, dst)
}

// SessionEventListDTO is the ingress frame shape the bridge's client->log
// pump parses, per spec.md §4.I: a session id and a batch of (topic, event)
// pairs.
type SessionEventListDTO struct {
	SessionID string          `json:"session_id"`
	Events    []InnerEventDTO `json:"events"`
}

// InnerEventDTO is one event within a SessionEventListDTO batch.
type InnerEventDTO struct {
	Topic Topic           `json:"topic"`
	Event json.RawMessage `json:"event"`
}
