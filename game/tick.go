package game

import (
	"log/slog"
	"time"

	"github.com/lguibr/pongrelay/metrics"
	"github.com/lguibr/pongrelay/vector"
)

// pongGroups are the collision groups configured for Pong, per spec.md §4.E
// step 4.
var pongGroups = []TypePair{
	{A: ObjTypes.Player, B: ObjTypes.Ball},
	{A: ObjTypes.Ball, B: ObjTypes.Wall},
	{A: ObjTypes.Player, B: ObjTypes.Wall},
}

// Simulation bundles the field with the detector and resolver registry it
// ticks against. Grounded on the single per-frame `Field::tick` entry point
// in `original_source/pong/src/game_field.rs` (apply inputs, advance
// positions, detect collisions, resolve), kept as a synchronous function
// call rather than an actor message per DESIGN.md's architecture notes.
type Simulation struct {
	Field    *Field
	detector *CollisionDetector
	handlers *CollisionHandlerRegistry
	log      *slog.Logger
}

// NewSimulation builds a Simulation over field with the standard Pong
// collision groups and resolvers registered.
func NewSimulation(field *Field, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.Default()
	}
	s := &Simulation{
		Field:    field,
		detector: NewCollisionDetector(pongGroups),
		handlers: NewCollisionHandlerRegistry(log),
		log:      log,
	}
	s.handlers.Register(TypePair{A: ObjTypes.Player, B: ObjTypes.Ball}, resolveBallPlayer)
	s.handlers.Register(TypePair{A: ObjTypes.Ball, B: ObjTypes.Wall}, resolveBallWall)
	s.handlers.Register(TypePair{A: ObjTypes.Player, B: ObjTypes.Wall}, resolvePlayerWall)
	return s
}

// ScoreEvent describes a scoring outcome produced by a tick, to be turned
// into a Status log event by the caller.
type ScoreEvent struct {
	Score  map[string]int
	Winner string // seat ("1"/"2"), empty if the match continues
}

// TickResult reports what a single Tick call changed.
type TickResult struct {
	Dirty      []*GameObject
	Collisions []Collision
	Score      *ScoreEvent
}

// Tick advances the simulation by one frame given (inputs, msDiff), per
// spec.md §4.E. The tick is total: unknown input obj_ids are silently
// ignored and msDiff is assumed non-negative (caller's responsibility per
// spec.md §5).
func (s *Simulation) Tick(inputs []Input, msDiff float64) TickResult {
	start := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(start).Seconds()) }()

	f := s.Field
	f.Tick++

	s.applyServe()
	s.applyInputs(inputs)
	s.integrate(msDiff)

	objects := f.Objects()
	collisions := s.detector.Detect(objects)
	for _, c := range collisions.All() {
		a, b := f.Get(c.IDA), f.Get(c.IDB)
		if a == nil || b == nil {
			continue
		}
		s.handlers.Handle(f, a, b)
	}
	f.Collisions = collisions

	score := s.resolveScoring()

	return TickResult{
		Dirty:      f.DirtyObjects(),
		Collisions: collisions.All(),
		Score:      score,
	}
}

// applyServe sets vel.x = -2 for any ball still at rest, a one-shot kick-off
// (spec.md §4.E step 1).
func (s *Simulation) applyServe() {
	for _, ball := range s.Field.ObjectsOfType(ObjTypes.Ball) {
		if ball.Physics.Vel.IsZero() {
			ball.SetVelocity(vector.New(-s.Field.cfg.ServeSpeed, 0))
		}
	}
}

// applyInputs matches each player object to its submitted input by obj_id,
// per spec.md §4.E step 2. Players always have zero x-velocity.
func (s *Simulation) applyInputs(inputs []Input) {
	byObjID := make(map[string]Input, len(inputs))
	for _, in := range inputs {
		byObjID[in.ObjID] = in
	}

	maxSpeed := s.Field.cfg.PaddleMaxSpeed
	for _, player := range s.Field.ObjectsOfType(ObjTypes.Player) {
		in, ok := byObjID[player.ID]
		if !ok {
			player.SetVelocity(vector.New(0, 0))
			continue
		}
		vy := player.Physics.Vel.Y
		switch in.Direction {
		case Directions.Up:
			vy = min(vy+1, maxSpeed)
		case Directions.Down:
			vy = max(vy-1, -maxSpeed)
		}
		player.SetVelocity(vector.New(0, vy))
	}
}

// integrate advances every non-static object's position (spec.md §4.E step 3).
func (s *Simulation) integrate(msDiff float64) {
	for _, obj := range s.Field.Objects() {
		obj.Integrate(msDiff, s.Field.cfg.FrameUnit)
	}
}

// resolveBallPlayer implements spec.md §4.E step 5's ball×player resolution.
func resolveBallPlayer(f *Field, player, ball *GameObject) {
	ball.Physics.Vel = ball.Physics.Vel.Reflect(player.Geom.Shape.Orientation)
	if !player.Physics.Vel.IsZero() {
		ball.Physics.Vel = ball.Physics.Vel.Add(player.Physics.Vel.Normalize())
	}
	away := ball.Center().Sub(player.Center()).Normalize()
	ball.MoveTo(ball.Center().Add(away))
	ball.Dirty = true
	player.Dirty = true
}

// resolveBallWall implements spec.md §4.E step 5's ball×wall resolution.
func resolveBallWall(f *Field, ball, wall *GameObject) {
	ball.Physics.Vel = ball.Physics.Vel.Reflect(wall.Geom.Shape.Orientation)
	ball.Dirty = true
}

// resolvePlayerWall implements spec.md §4.E step 5's player×wall
// resolution: paddles are constrained against the top/bottom walls along
// the wall's inward normal. Side walls are ignored for paddles — a ball
// crossing one is a scoring event, not a paddle constraint, per spec.md
// §4.E step 5.
func resolvePlayerWall(f *Field, player, wall *GameObject) {
	halfHeight := player.Geom.Shape.Height / 2
	center := player.Center()
	switch wall.ID {
	case WallTop:
		if limit := halfHeight; center.Y < limit {
			player.MoveTo(vector.New(center.X, limit))
		}
	case WallBottom:
		if limit := f.Height - halfHeight; center.Y > limit {
			player.MoveTo(vector.New(center.X, limit))
		}
	default:
		// Side walls are ignored for paddles: paddles never travel in x, and
		// a ball crossing a side wall is a scoring event, not a paddle
		// constraint, per spec.md §4.E step 5.
	}
}

// resolveScoring implements spec.md §4.E step 6: any ball whose center
// crosses a side wall increments the opposing player's score, fires a Status
// event (populating Winner at match point), and resets to field center with
// vel := 0.
func (s *Simulation) resolveScoring() *ScoreEvent {
	f := s.Field
	var scored bool
	for _, ball := range f.ObjectsOfType(ObjTypes.Ball) {
		center := ball.Center()
		switch {
		case center.X <= 0:
			f.Score["2"]++
			scored = true
		case center.X >= f.Width:
			f.Score["1"]++
			scored = true
		default:
			continue
		}
		ball.MoveTo(vector.New(f.Width/2, f.Height/2))
		ball.Physics.Vel = vector.Zero
		ball.Dirty = true
	}
	if !scored {
		return nil
	}

	event := &ScoreEvent{Score: map[string]int{"1": f.Score["1"], "2": f.Score["2"]}}
	if f.Score["1"] >= f.cfg.MatchPoint {
		event.Winner = "1"
	} else if f.Score["2"] >= f.cfg.MatchPoint {
		event.Winner = "2"
	}
	return event
}
