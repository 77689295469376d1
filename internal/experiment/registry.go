package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/integrators"
	"github.com/san-kum/cowsim/internal/metrics"
	"github.com/san-kum/cowsim/internal/sim"
)

// minBoundRadius keeps the boundedness check meaningful for tight scenarios.
const minBoundRadius = 1000.0

// Registry names the metrics and integrators an experiment can use. Metrics
// are stateful, so the registry stores constructors.
type Registry struct {
	metrics map[string]func(*config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(*config.Config) sim.Metric),
	}

	r.metrics["energy"] = func(c *config.Config) sim.Metric { return metrics.NewEnergy(c.G) }
	r.metrics["energy_drift"] = func(c *config.Config) sim.Metric { return metrics.NewEnergyDrift(c.G) }
	r.metrics["momentum_drift"] = func(c *config.Config) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["bounded"] = func(c *config.Config) sim.Metric { return metrics.NewBoundedness(boundRadius(c)) }

	return r
}

// boundRadius is ten times the scenario's initial extent.
func boundRadius(c *config.Config) float64 {
	extent := 0.0
	for _, b := range c.Bodies {
		extent = math.Max(extent, math.Hypot(b.X, b.Y))
	}
	return math.Max(10*extent, minBoundRadius)
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	return integrators.Get(name)
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	names := r.ListMetrics()
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](cfg))
	}
	return out
}
