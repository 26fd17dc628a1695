package game

import "log/slog"

// Resolver resolves one collision between two objects of a registered type
// pair. Arguments always arrive in the pair's registration order: if the
// pair was registered as (A, B) and the collision is observed as (B, A), the
// arguments are swapped before the resolver is called, per spec.md §4.D.
type Resolver func(f *Field, a, b *GameObject)

// CollisionHandlerRegistry dispatches typed collision pairs to resolvers.
// Grounded on `original_source/pong/src/collision.rs`'s `CollisionGroup`
// matching (a type pair matches regardless of which side a collision
// reports first), generalized into a (type_a, type_b) keyed map of resolver
// functions with swapped-key lookup, per spec.md §4.D.
type CollisionHandlerRegistry struct {
	resolvers map[[2]ObjType]Resolver
	order     map[[2]ObjType]TypePair // registration order, for swap detection
	log       *slog.Logger
}

// NewCollisionHandlerRegistry builds an empty registry.
func NewCollisionHandlerRegistry(log *slog.Logger) *CollisionHandlerRegistry {
	if log == nil {
		log = slog.Default()
	}
	return &CollisionHandlerRegistry{
		resolvers: make(map[[2]ObjType]Resolver),
		order:     make(map[[2]ObjType]TypePair),
		log:       log,
	}
}

// Register associates a resolver with a type pair. A duplicate key is a
// programmer error and panics, per spec.md §4.D/§7.
func (r *CollisionHandlerRegistry) Register(pair TypePair, resolver Resolver) {
	key := pair.key()
	if _, exists := r.resolvers[key]; exists {
		panic("game: duplicate collision handler for " + pair.A.String() + "/" + pair.B.String())
	}
	r.resolvers[key] = resolver
	r.order[key] = pair
}

// Handle looks up a resolver for (a.Type, b.Type), trying the exact
// registration order first and then the swapped order — swapping the
// argument positions in the latter case so the resolver always receives its
// arguments in registration order. Returns true iff a resolver was invoked;
// an unhandled pair is logged and dropped.
func (r *CollisionHandlerRegistry) Handle(f *Field, a, b *GameObject) bool {
	pair := TypePair{A: a.Type, B: b.Type}
	key := pair.key()
	resolver, ok := r.resolvers[key]
	if !ok {
		r.log.Debug("unhandled collision pair", "type_a", a.Type.String(), "type_b", b.Type.String())
		return false
	}
	registered := r.order[key]
	if registered.A == a.Type {
		resolver(f, a, b)
	} else {
		resolver(f, b, a)
	}
	return true
}
