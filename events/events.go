package events

import (
	"time"

	"github.com/lguibr/pongrelay/game"
)

// ObjectState is one object's broadcastable state, per the host_tick/
// peer_tick/move wire schema in spec.md §6.
type ObjectState struct {
	ID            string  `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	OrientationX  float64 `json:"orientation_x"`
	OrientationY  float64 `json:"orientation_y"`
	VelX          float64 `json:"vel_x"`
	VelY          float64 `json:"vel_y"`
	ShapeParam1   float64 `json:"shape_param_1"`
	ShapeParam2   float64 `json:"shape_param_2"`
	TimestampUnix int64   `json:"ts"`
}

// NewObjectState captures a broadcastable snapshot of a GameObject. For a
// Rect, ShapeParam1/2 are width/height; for a Circle, ShapeParam1 is the
// radius and ShapeParam2 is unused (zero).
func NewObjectState(obj *game.GameObject, ts time.Time) ObjectState {
	shape := obj.Geom.Shape
	state := ObjectState{
		ID:            obj.ID,
		X:             obj.Center().X,
		Y:             obj.Center().Y,
		OrientationX:  shape.Orientation.X,
		OrientationY:  shape.Orientation.Y,
		VelX:          obj.Physics.Vel.X,
		VelY:          obj.Physics.Vel.Y,
		TimestampUnix: ts.UnixMilli(),
	}
	if shape.Radius != 0 {
		state.ShapeParam1 = shape.Radius
	} else {
		state.ShapeParam1 = shape.Width
		state.ShapeParam2 = shape.Height
	}
	return state
}

// MovePayload is the payload carried on the move/host_tick/peer_tick
// topics, per spec.md §6.
type MovePayload struct {
	SessionID     string        `json:"session_id"`
	TimestampUnix int64         `json:"ts"`
	Objects       []ObjectState `json:"objects"`
}

// InputPayload is the payload carried on the input topic, per spec.md §6.
type InputPayload struct {
	SessionID     string       `json:"session_id"`
	PlayerID      string       `json:"player_id"`
	TimestampUnix int64        `json:"ts"`
	Inputs        []InputEntry `json:"inputs"`
}

// InputEntry is one directional command within an InputPayload.
type InputEntry struct {
	Input  string `json:"input"` // "UP" or "DOWN"
	ObjID  string `json:"obj_id"`
	Player int    `json:"player"`
}

// ToGameInput converts an InputEntry into the game package's Input type.
func (e InputEntry) ToGameInput() game.Input {
	dir := game.Directions.Down
	if e.Input == "UP" {
		dir = game.Directions.Up
	}
	return game.Input{Direction: dir, ObjID: e.ObjID, Player: e.Player}
}

// StatusPayload is the payload carried on the status topic, per spec.md §6.
// Score is left an opaque JSON object per spec.md §9's open question; this
// deployment fixes it as a map keyed by seat.
type StatusPayload struct {
	SessionID string         `json:"session_id"`
	Score     map[string]int `json:"score"`
	Winner    string         `json:"winner,omitempty"`
}

// HeartBeatPayload is the payload carried on the heart_beat topic, per
// spec.md §6.
type HeartBeatPayload struct {
	ActorID       string `json:"actor_id"`
	SessionID     string `json:"session_id"`
	TimestampUnix int64  `json:"ts"`
}
