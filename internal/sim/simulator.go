package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/integrators"
	"github.com/san-kum/cowsim/internal/metrics"
	"github.com/san-kum/cowsim/internal/physics"
)

// parallelChunk is the smallest body count worth integrating on its own
// goroutine.
const parallelChunk = 256

// Simulator owns a collection of bodies and advances them one step at a time.
// It is not safe for concurrent use; see Locked.
type Simulator struct {
	cfg        Config
	integrator integrators.Integrator
	logger     *slog.Logger

	slots   []*physics.Body
	initial map[Handle]*physics.Body

	// live and liveHandles mirror the non-nil slots in handle order.
	live        []*physics.Body
	liveHandles []Handle

	t      float64
	lastDt float64
	steps  int
	trail  []dynamo.Vec2
	stats  StepStats

	metrics   []Metric
	observers []Observer
}

func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:        cfg,
		integrator: integrators.NewSymplecticEuler(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		initial:    make(map[Handle]*physics.Body),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() Config                     { return s.cfg }
func (s *Simulator) Integrator() integrators.Integrator { return s.integrator }
func (s *Simulator) Time() float64                      { return s.t }
func (s *Simulator) LastDt() float64                    { return s.lastDt }
func (s *Simulator) Steps() int                         { return s.steps }
func (s *Simulator) Stats() StepStats                   { return s.stats }
func (s *Simulator) Len() int                           { return len(s.live) }

// AddBody creates a body and returns its handle. Mass and radius must be
// positive and finite.
func (s *Simulator) AddBody(pos, vel dynamo.Vec2, radius, mass float64, member bool) (Handle, error) {
	b, err := physics.NewBody(pos, vel, radius, mass, member)
	if err != nil {
		return -1, err
	}
	h := Handle(len(s.slots))
	s.slots = append(s.slots, b)
	if s.steps > 0 {
		s.initial[h] = b.Clone()
	}
	s.rebuild()
	return h, nil
}

// RemoveBody drops a body from the world. Its handle is never reused.
func (s *Simulator) RemoveBody(h Handle) error {
	if _, err := s.lookup(h); err != nil {
		return err
	}
	s.slots[h] = nil
	delete(s.initial, h)
	s.rebuild()
	return nil
}

func (s *Simulator) rebuild() {
	s.live = s.live[:0]
	s.liveHandles = s.liveHandles[:0]
	for i, b := range s.slots {
		if b == nil {
			continue
		}
		s.live = append(s.live, b)
		s.liveHandles = append(s.liveHandles, Handle(i))
	}
}

func (s *Simulator) lookup(h Handle) (*physics.Body, error) {
	if h < 0 || int(h) >= len(s.slots) || s.slots[h] == nil {
		return nil, fmt.Errorf("handle %d: %w", h, dynamo.ErrUnknownBody)
	}
	return s.slots[h], nil
}

// Body returns a copy of the body's observable state.
func (s *Simulator) Body(h Handle) (physics.Snapshot, error) {
	b, err := s.lookup(h)
	if err != nil {
		return physics.Snapshot{}, err
	}
	return b.Snapshot(), nil
}

// Bodies returns snapshots of every live body in handle order.
func (s *Simulator) Bodies() []physics.Snapshot {
	out := make([]physics.Snapshot, len(s.live))
	for i, b := range s.live {
		out[i] = b.Snapshot()
	}
	return out
}

// Handles returns the live handles in iteration order.
func (s *Simulator) Handles() []Handle {
	out := make([]Handle, len(s.liveHandles))
	copy(out, s.liveHandles)
	return out
}

func (s *Simulator) SetVelocity(h Handle, v dynamo.Vec2) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	if !dynamo.IsFinite(v) {
		return fmt.Errorf("velocity %v: %w", v, dynamo.ErrInvalidBody)
	}
	b.SetVelocity(v)
	return nil
}

func (s *Simulator) SetPosition(h Handle, p dynamo.Vec2) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	if !dynamo.IsFinite(p) {
		return fmt.Errorf("position %v: %w", p, dynamo.ErrInvalidBody)
	}
	b.SetPosition(p)
	return nil
}

// Step advances the world by dt: gravity for every pair, integration of
// every body, then collision resolution on the integrated state. A zero dt
// is accepted and only resolves existing contacts.
//
// If a body ends the step with a non-finite position or velocity the step
// still completes and a *dynamo.SimulationError wrapping
// dynamo.ErrInvalidState is returned. Such state is not recoverable.
func (s *Simulator) Step(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("dt %v: %w", dt, dynamo.ErrInvalidTimestep)
	}
	if s.steps == 0 {
		s.captureInitial()
	}

	skipped := physics.ApplyGravitationalForces(s.live, s.cfg.G, s.cfg.MinSeparation)
	if skipped > 0 {
		s.logger.Debug("skipped coincident pairs", "step", s.steps, "pairs", skipped)
	}
	s.stats.SkippedPairs += skipped

	// Integrators are stateless and touch one body each.
	dynamo.ParallelFor(len(s.live), parallelChunk, func(start, end int) {
		for _, b := range s.live[start:end] {
			s.integrator.Step(b, dt)
		}
	})

	if s.cfg.Collisions {
		cs := physics.ResolveCollisions(s.live, s.cfg.MinSeparation)
		if cs.Degenerate > 0 || cs.NoBacktrack > 0 {
			s.logger.Debug("degenerate contacts", "step", s.steps, "coincident", cs.Degenerate, "no_backtrack", cs.NoBacktrack)
		}
		s.stats.Collisions.Add(cs)
	}

	s.t += dt
	s.lastDt = dt
	s.steps++

	for i, b := range s.live {
		if !b.IsFinite() {
			err := &dynamo.SimulationError{
				Step:    s.steps,
				Time:    s.t,
				Body:    int(s.liveHandles[i]),
				Wrapped: dynamo.ErrInvalidState,
			}
			s.logger.Warn("non-finite body state", "step", s.steps, "body", s.liveHandles[i])
			return err
		}
	}

	s.sampleTrail()
	return nil
}

func (s *Simulator) captureInitial() {
	for i, b := range s.live {
		s.initial[s.liveHandles[i]] = b.Clone()
	}
}

func (s *Simulator) sampleTrail() {
	if s.cfg.TrailCapacity == 0 {
		return
	}
	com := s.CenterOfMass()
	if dynamo.IsNaN(com) {
		return
	}
	if len(s.trail) >= s.cfg.TrailCapacity {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:len(s.trail)-1]
	}
	s.trail = append(s.trail, com)
}

// Trail returns the sampled centre-of-mass history, oldest first.
func (s *Simulator) Trail() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(s.trail))
	copy(out, s.trail)
	return out
}

// Reset restores every live body to its state before the first step and
// clears time, statistics and the trail.
func (s *Simulator) Reset() {
	for h, b := range s.initial {
		if int(h) < len(s.slots) && s.slots[h] != nil {
			s.slots[h] = b.Clone()
		}
	}
	s.rebuild()
	s.t = 0
	s.lastDt = 0
	s.steps = 0
	s.trail = s.trail[:0]
	s.stats = StepStats{}
	for _, m := range s.metrics {
		m.Reset()
	}
}

// CenterOfMass of the system members, or (NaN, NaN) without members.
func (s *Simulator) CenterOfMass() dynamo.Vec2 { return metrics.CenterOfMass(s.live) }

func (s *Simulator) KineticEnergy() float64 { return metrics.KineticEnergy(s.live) }

func (s *Simulator) PotentialEnergy() float64 { return metrics.PotentialEnergy(s.live, s.cfg.G) }

func (s *Simulator) TotalEnergy() float64 { return s.KineticEnergy() + s.PotentialEnergy() }

func (s *Simulator) Momentum() dynamo.Vec2 { return metrics.Momentum(s.live) }

func (s *Simulator) AngularMomentum() float64 { return metrics.AngularMomentum(s.live) }

// Run steps the world with a fixed dt until duration has elapsed, recording a
// frame every RecordEvery steps (every step when zero). It stops early on
// context cancellation or when the state becomes non-finite; the latter is
// reported in Result.Errors.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every == 0 {
		every = 1
	}
	steps := cfg.steps()
	frames := min(steps/every+1, maxPrealloc)

	result := &Result{
		Times:        make([]float64, 0, frames),
		Frames:       make([][]physics.Snapshot, 0, frames),
		CenterOfMass: make([]dynamo.Vec2, 0, frames),
		Kinetic:      make([]float64, 0, frames),
		Potential:    make([]float64, 0, frames),
		Metrics:      make(map[string]float64),
		Errors:       make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.TotalEnergy()
	s.record(result)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for _, m := range s.metrics {
			m.Observe(s.live, s.t)
		}

		if err := s.Step(cfg.Dt); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.StepsTaken++

		for _, obs := range s.observers {
			obs.OnStep(s, s.t)
		}

		if result.StepsTaken%every == 0 {
			s.record(result)
		}
	}

	s.finish(result, initialEnergy)
	return result, nil
}

func (s *Simulator) record(r *Result) {
	r.Times = append(r.Times, s.t)
	r.Frames = append(r.Frames, s.Bodies())
	r.CenterOfMass = append(r.CenterOfMass, s.CenterOfMass())
	r.Kinetic = append(r.Kinetic, s.KineticEnergy())
	r.Potential = append(r.Potential, s.PotentialEnergy())
}

func (s *Simulator) finish(r *Result, initialEnergy float64) {
	finalEnergy := s.TotalEnergy()
	if initialEnergy != 0 && !math.IsInf(initialEnergy, 0) {
		r.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	r.Stats = s.stats
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}
