package sim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/integrators"
	"github.com/san-kum/cowsim/internal/physics"
)

// Handle names a body inside one Simulator. Handles are never reused, so a
// handle to a removed body stays invalid.
type Handle int

// Config holds the physical parameters of a world.
type Config struct {
	G             float64
	MinSeparation float64
	Collisions    bool
	TrailCapacity int
}

func DefaultConfig() Config {
	return Config{
		G:             10000,
		MinSeparation: physics.DefaultMinSeparation,
		Collisions:    true,
		TrailCapacity: 1000,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.G) || math.IsInf(c.G, 0) || c.G < 0 {
		return fmt.Errorf("gravitational constant %v: %w", c.G, dynamo.ErrInvalidConfig)
	}
	if math.IsNaN(c.MinSeparation) || math.IsInf(c.MinSeparation, 0) || c.MinSeparation < 0 {
		return fmt.Errorf("min separation %v: %w", c.MinSeparation, dynamo.ErrInvalidConfig)
	}
	if c.TrailCapacity < 0 {
		return fmt.Errorf("trail capacity %d: %w", c.TrailCapacity, dynamo.ErrInvalidConfig)
	}
	return nil
}

// Metric accumulates a scalar over a run. Observe must not mutate bodies.
type Metric interface {
	Name() string
	Observe(bodies []*physics.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s *Simulator, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Simulator, t float64)

func (f ObserverFunc) OnStep(s *Simulator, t float64) { f(s, t) }

// Option configures a Simulator.
type Option func(*Simulator)

// WithIntegrator replaces the default symplectic Euler stepper.
func WithIntegrator(integ integrators.Integrator) Option {
	return func(s *Simulator) { s.integrator = integ }
}

// WithLogger sets the logger used for degenerate-geometry and state reports.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// StepStats aggregates what the physics passes reported.
type StepStats struct {
	SkippedPairs int
	Collisions   physics.CollisionStats
}

// MaxSteps bounds the number of fixed steps a single Run may take.
const MaxSteps = 100_000_000

// maxPrealloc caps the frames reserved up front; longer runs grow by append.
const maxPrealloc = 4096

// RunConfig drives a fixed-step batch run.
type RunConfig struct {
	Dt          float64
	Duration    float64
	RecordEvery int
}

func (c RunConfig) validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrInvalidConfig)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if n := c.Duration / c.Dt; math.IsInf(n, 0) || math.Round(n) > MaxSteps {
		return fmt.Errorf("duration %g at dt %g exceeds %d steps: %w", c.Duration, c.Dt, MaxSteps, dynamo.ErrInvalidConfig)
	}
	if c.RecordEvery < 0 {
		return fmt.Errorf("record interval must not be negative, got %d: %w", c.RecordEvery, dynamo.ErrInvalidConfig)
	}
	return nil
}

func (c RunConfig) steps() int { return int(math.Round(c.Duration / c.Dt)) }

// Result is the recorded history of a Run.
type Result struct {
	Times        []float64
	Frames       [][]physics.Snapshot
	CenterOfMass []dynamo.Vec2
	Kinetic      []float64
	Potential    []float64
	Metrics      map[string]float64
	Stats        StepStats
	EnergyDrift  float64
	StepsTaken   int
	Errors       []error
}
