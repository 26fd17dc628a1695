package game

import "github.com/lguibr/pongrelay/vector"

// wallID names for the four static bounds, per spec.md §3.
const (
	WallTop    = "top"
	WallBottom = "bottom"
	WallLeft   = "left"
	WallRight  = "right"
)

// Field is the authoritative simulation state: dimensions, an insertion-order
// set of objects keyed by id, the last tick's collision registry, the four
// static bounding walls, score, and a tick counter, per spec.md §3.
//
// Objects are kept in an ordered set (slice + index map) rather than a bare
// map so iteration order is deterministic across ticks, matching spec.md
// §4.E's determinism contract and §9's "deterministic iteration" note.
type Field struct {
	Width  float64
	Height float64

	order []string
	index map[string]int
	byID  map[string]*GameObject

	Collisions *CollisionRegistry
	Score      map[string]int
	Tick       int

	cfg Config
}

// Config holds the tunables the field tick needs, the Go equivalent of the
// per-call constants `original_source/pong/src/game_field.rs`'s `Field::new`
// hard-codes (paddle speed caps, ball speed, wall thickness), pulled out into
// a struct of tunables per spec.md §4.E; the rest of the process-level
// configuration lives in package config.
type Config struct {
	MatchPoint     int
	WallThickness  float64
	FrameUnit      float64 // ms_diff is divided by this to get per-tick scale
	PaddleMaxSpeed float64
	ServeSpeed     float64
}

// DefaultFieldConfig returns the struct of tunables populated with the
// defaults spec.md §4.E/§9 names, following the one-function-returns-a-
// populated-struct convention `pronitdas-poker-platform-b2b/internal/game/
// rules/engine.go`'s `TableConfig` defaulting in `table.go`'s `NewTable` uses.
func DefaultFieldConfig() Config {
	return Config{
		MatchPoint:     11,
		WallThickness:  20,
		FrameUnit:      1,
		PaddleMaxSpeed: 5,
		ServeSpeed:     2,
	}
}

// NewField builds a Field with the four static bounding walls already
// present, per the invariant in spec.md §3 ("wall objects are always
// present").
func NewField(width, height float64, cfg Config) *Field {
	f := &Field{
		Width:      width,
		Height:     height,
		index:      make(map[string]int),
		byID:       make(map[string]*GameObject),
		Collisions: NewCollisionRegistry(nil),
		Score:      map[string]int{"1": 0, "2": 0},
		cfg:        cfg,
	}
	f.addWalls()
	return f
}

func (f *Field) addWalls() {
	t := f.cfg.WallThickness
	walls := []struct {
		id          string
		center      vector.Vector
		orientation vector.Vector
		w, h        float64
	}{
		{WallTop, vector.New(f.Width/2, -t/2), vector.New(0, 1), f.Width, t},
		{WallBottom, vector.New(f.Width/2, f.Height+t/2), vector.New(0, -1), f.Width, t},
		{WallLeft, vector.New(-t/2, f.Height/2), vector.New(1, 0), t, f.Height},
		{WallRight, vector.New(f.Width+t/2, f.Height/2), vector.New(-1, 0), t, f.Height},
	}
	for _, w := range walls {
		obj := NewGameObject(w.id, ObjTypes.Wall, vector.NewRect(w.center, w.orientation, w.w, w.h))
		obj.Physics.Static = true
		f.Add(obj)
	}
}

// Add inserts an object into the ordered set. A duplicate id is a
// programmer error per spec.md §3's uniqueness invariant and panics rather
// than silently overwriting, matching spec.md §7's "programmer error: abort
// the process" policy.
func (f *Field) Add(obj *GameObject) {
	if _, exists := f.byID[obj.ID]; exists {
		panic("game: duplicate object id " + obj.ID)
	}
	f.index[obj.ID] = len(f.order)
	f.order = append(f.order, obj.ID)
	f.byID[obj.ID] = obj
}

// Remove deletes an object from the field, if present.
func (f *Field) Remove(id string) {
	idx, ok := f.index[id]
	if !ok {
		return
	}
	delete(f.byID, id)
	delete(f.index, id)
	f.order = append(f.order[:idx], f.order[idx+1:]...)
	for i := idx; i < len(f.order); i++ {
		f.index[f.order[i]] = i
	}
}

// Get returns the object with the given id, or nil.
func (f *Field) Get(id string) *GameObject {
	return f.byID[id]
}

// Objects returns every object in deterministic insertion order.
func (f *Field) Objects() []*GameObject {
	objs := make([]*GameObject, 0, len(f.order))
	for _, id := range f.order {
		objs = append(objs, f.byID[id])
	}
	return objs
}

// ObjectsOfType returns every object of the given type, in insertion order.
func (f *Field) ObjectsOfType(t ObjType) []*GameObject {
	var objs []*GameObject
	for _, id := range f.order {
		obj := f.byID[id]
		if obj.Type == t {
			objs = append(objs, obj)
		}
	}
	return objs
}

// DirtyObjects returns every object whose Dirty flag is set, in insertion
// order, and clears the flag on each.
func (f *Field) DirtyObjects() []*GameObject {
	var dirty []*GameObject
	for _, id := range f.order {
		obj := f.byID[id]
		if obj.Dirty {
			dirty = append(dirty, obj)
			obj.Dirty = false
		}
	}
	return dirty
}
