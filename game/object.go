// Package game implements the deterministic field tick: game objects,
// collision detection/resolution, and the per-frame simulation that produces
// the Move events the rest of the system broadcasts.
package game

import "github.com/lguibr/pongrelay/vector"

// ObjType is the closed set of object kinds a GameObject can be, playing the
// role `original_source/pong/src/game_field.rs` splits across Player/Ball/
// Bounds structs. Implemented as a plain iota-backed enum (the idiom
// `pronitdas-poker-platform-b2b/internal/game/rules/engine.go` uses for
// GameType/GamePhase); the ObjTypes value below is new code, a stdlib-only
// ergonomic wrapper with no pack precedent.
type ObjType int

const (
	playerType ObjType = iota
	ballType
	wallType
)

type objTypes struct {
	Player ObjType
	Ball   ObjType
	Wall   ObjType
}

// ObjTypes enumerates the three ObjType values.
var ObjTypes = objTypes{Player: playerType, Ball: ballType, Wall: wallType}

func (t ObjType) String() string {
	switch t {
	case playerType:
		return "player"
	case ballType:
		return "ball"
	case wallType:
		return "wall"
	default:
		return "unknown"
	}
}

// Physics owns an object's velocity and whether it is immovable.
type Physics struct {
	Vel    vector.Vector
	Static bool
}

// Geom owns an object's shape (and thereby its center and orientation).
type Geom struct {
	Shape vector.Shape
}

// GameObject is a tickable entity: an id, its type, its geometry, its
// physics, and a dirty flag raised by any mutation worth broadcasting, per
// spec.md §3.
type GameObject struct {
	ID      string
	Type    ObjType
	Geom    Geom
	Physics Physics
	Dirty   bool
}

// NewGameObject builds a GameObject from its id, type and shape. Velocity
// starts zero and the object starts non-static.
func NewGameObject(id string, objType ObjType, shape vector.Shape) *GameObject {
	return &GameObject{
		ID:   id,
		Type: objType,
		Geom: Geom{Shape: shape},
	}
}

// Center returns the object's current position.
func (o *GameObject) Center() vector.Vector {
	return o.Geom.Shape.Center
}

// BoundingBox returns the object's current axis-aligned bounding box.
func (o *GameObject) BoundingBox() vector.BoundingBox {
	return o.Geom.Shape.BoundingBox()
}

// SetVelocity sets the object's velocity and marks it dirty.
func (o *GameObject) SetVelocity(v vector.Vector) {
	o.Physics.Vel = v
	o.Dirty = true
}

// Integrate advances the object's position by vel*(msDiff/frameUnit), per
// spec.md §4.E step 3. Orientation follows the normalized velocity when it is
// non-zero; otherwise the previous orientation is retained. Static objects
// (walls) never move.
func (o *GameObject) Integrate(msDiff float64, frameUnit float64) {
	if o.Physics.Static {
		return
	}
	if o.Physics.Vel.IsZero() && msDiff == 0 {
		return
	}
	delta := o.Physics.Vel.Scale(msDiff / frameUnit)
	if delta.IsZero() {
		return
	}
	newCenter := o.Geom.Shape.Center.Add(delta)
	newOrientation := o.Physics.Vel.Normalize()
	o.Geom.Shape = o.Geom.Shape.Moved(newCenter, newOrientation)
	o.Dirty = true
}

// MoveTo sets the object's center directly (used for scoring resets),
// marking it dirty.
func (o *GameObject) MoveTo(center vector.Vector) {
	o.Geom.Shape = o.Geom.Shape.Moved(center, vector.Zero)
	o.Dirty = true
}
