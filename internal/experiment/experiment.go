package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/sim"
)

// Experiment is one fixed-step batch run of a scenario.
type Experiment struct {
	cfg         *config.Config
	recordEvery int
	simulator   *sim.Simulator
}

// New copies cfg so later edits by the caller do not leak into the run.
// recordEvery controls how often frames are recorded; values below one
// record every step.
func New(cfg *config.Config, recordEvery int) *Experiment {
	return &Experiment{
		cfg:         cfg.Clone(),
		recordEvery: max(recordEvery, 1),
	}
}

func (e *Experiment) Setup(metrics []sim.Metric, opts ...sim.Option) error {
	s, err := e.cfg.Build(opts...)
	if err != nil {
		return fmt.Errorf("setup %s: %w", e.cfg.Name, err)
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig(e.recordEvery))
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Compare runs the scenario once per integrator, concurrently, and returns
// the results in the order of names.
func Compare(ctx context.Context, r *Registry, cfg *config.Config, names []string, recordEvery int, opts ...sim.Option) ([]*sim.Result, error) {
	for _, name := range names {
		if _, err := r.GetIntegrator(name); err != nil {
			return nil, err
		}
	}
	ens := sim.NewEnsemble(func(idx int) (*sim.Simulator, error) {
		c := cfg.Clone()
		c.Integrator = names[idx]
		e := New(c, recordEvery)
		if err := e.Setup(r.DefaultMetrics(c), opts...); err != nil {
			return nil, err
		}
		return e.Simulator(), nil
	}, len(names))
	return ens.Run(ctx, cfg.RunConfig(max(recordEvery, 1)))
}
