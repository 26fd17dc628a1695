package game

import "sync"

// Collision is an unordered pair of colliding object ids, per spec.md §3.
type Collision struct {
	IDA string
	IDB string
}

// key returns a canonical, order-independent lookup key for the pair.
func (c Collision) key() [2]string {
	if c.IDA <= c.IDB {
		return [2]string{c.IDA, c.IDB}
	}
	return [2]string{c.IDB, c.IDA}
}

// CollisionRegistry is the last-tick registry of collision pairs. Grounded
// on `original_source/pong/src/collision.rs`'s `Collisions` registry
// (`get_collisions_by_id` pair lookup), with a mutex added over the pack's
// mutex-guarded-map idiom (e.g. `pronitdas-poker-platform-b2b/internal/game/
// table.go`'s `sync.RWMutex`-guarded state): All and ByID take a read lock.
// Within this repository the registry is read only by the Simulation and its
// callers; no HTTP handler reads it.
type CollisionRegistry struct {
	mu    sync.RWMutex
	pairs []Collision
	byKey map[[2]string]bool
}

// NewCollisionRegistry builds a registry from a slice of collisions (order
// preserved, matching spec.md §4.C's "order of resulting pairs follows scan
// order").
func NewCollisionRegistry(pairs []Collision) *CollisionRegistry {
	r := &CollisionRegistry{byKey: make(map[[2]string]bool, len(pairs))}
	for _, p := range pairs {
		r.add(p)
	}
	return r
}

func (r *CollisionRegistry) add(c Collision) {
	r.pairs = append(r.pairs, c)
	r.byKey[c.key()] = true
}

// All returns every collision pair detected last tick, in scan order.
func (r *CollisionRegistry) All() []Collision {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Collision, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// ByID returns every collision pair involving the given object id.
func (r *CollisionRegistry) ByID(id string) []Collision {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Collision
	for _, p := range r.pairs {
		if p.IDA == id || p.IDB == id {
			out = append(out, p)
		}
	}
	return out
}

// TypePair is an unordered pair of object types used to configure collision
// groups (§4.E step 4) and to key the handler registry (§4.D).
type TypePair struct {
	A ObjType
	B ObjType
}

func (p TypePair) key() [2]ObjType {
	if p.A <= p.B {
		return [2]ObjType{p.A, p.B}
	}
	return [2]ObjType{p.B, p.A}
}

// CollisionDetector scans the upper triangle of the object list for
// overlapping pairs whose types belong to a configured group, per spec.md
// §4.C.
type CollisionDetector struct {
	groups map[[2]ObjType]bool
}

// NewCollisionDetector builds a detector configured with an ordered list of
// unordered type-pairs.
func NewCollisionDetector(groups []TypePair) *CollisionDetector {
	d := &CollisionDetector{groups: make(map[[2]ObjType]bool, len(groups))}
	for _, g := range groups {
		d.groups[g.key()] = true
	}
	return d
}

// Detect returns a CollisionRegistry of every overlapping pair among objects
// whose types match a configured group. The O(n^2) upper-triangle scan
// preserves a deterministic, reproducible pair order.
func (d *CollisionDetector) Detect(objects []*GameObject) *CollisionRegistry {
	var pairs []Collision
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			a, b := objects[i], objects[j]
			pair := TypePair{A: a.Type, B: b.Type}
			if !d.groups[pair.key()] {
				continue
			}
			if a.BoundingBox().Overlaps(b.BoundingBox()) {
				pairs = append(pairs, Collision{IDA: a.ID, IDB: b.ID})
			}
		}
	}
	return NewCollisionRegistry(pairs)
}
