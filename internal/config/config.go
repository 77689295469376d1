package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cowsim/internal/dynamo"
	"github.com/san-kum/cowsim/internal/integrators"
	"github.com/san-kum/cowsim/internal/physics"
	"github.com/san-kum/cowsim/internal/sim"
)

const (
	DefaultG             = 10000.0
	DefaultDt            = 0.01
	DefaultDuration      = 10.0
	DefaultTrailCapacity = 1000
)

// Config is a scenario: world parameters plus the bodies to place.
type Config struct {
	Name          string       `yaml:"name"`
	G             float64      `yaml:"g"`
	Dt            float64      `yaml:"dt"`
	Duration      float64      `yaml:"duration"`
	MinSeparation float64      `yaml:"min_separation"`
	Collisions    bool         `yaml:"collisions"`
	Integrator    string       `yaml:"integrator"`
	TrailCapacity int          `yaml:"trail_capacity"`
	Bodies        []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Member bool    `yaml:"member"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "custom",
		G:             DefaultG,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		MinSeparation: physics.DefaultMinSeparation,
		Collisions:    true,
		Integrator:    integrators.Default,
		TrailCapacity: DefaultTrailCapacity,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt %v: %w", c.Dt, dynamo.ErrInvalidConfig)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration %v: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if n := c.Duration / c.Dt; math.IsInf(n, 0) || math.Round(n) > sim.MaxSteps {
		return fmt.Errorf("duration %v at dt %v needs more than %d steps: %w", c.Duration, c.Dt, sim.MaxSteps, dynamo.ErrInvalidConfig)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	for i, b := range c.Bodies {
		if _, err := physics.NewBody(dynamo.V(b.X, b.Y), dynamo.V(b.VX, b.VY), b.Radius, b.Mass, b.Member); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	return nil
}

// SimConfig extracts the engine parameters.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		G:             c.G,
		MinSeparation: c.MinSeparation,
		Collisions:    c.Collisions,
		TrailCapacity: c.TrailCapacity,
	}
}

// RunConfig extracts the fixed-step batch parameters.
func (c *Config) RunConfig(recordEvery int) sim.RunConfig {
	return sim.RunConfig{Dt: c.Dt, Duration: c.Duration, RecordEvery: recordEvery}
}

// Build creates a simulator populated with the scenario's bodies.
func (c *Config) Build(opts ...sim.Option) (*sim.Simulator, error) {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return nil, err
	}
	opts = append([]sim.Option{sim.WithIntegrator(integ)}, opts...)

	s, err := sim.New(c.SimConfig(), opts...)
	if err != nil {
		return nil, err
	}
	for i, b := range c.Bodies {
		if _, err := s.AddBody(dynamo.V(b.X, b.Y), dynamo.V(b.VX, b.VY), b.Radius, b.Mass, b.Member); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	return s, nil
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}

// ParamNames lists the numeric fields SetParam accepts.
var ParamNames = []string{"dt", "duration", "g", "min_separation"}

// SetParam assigns a numeric scenario field by its yaml name. The result is
// not validated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "g":
		c.G = v
	case "min_separation":
		c.MinSeparation = v
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames)
	}
	return nil
}
