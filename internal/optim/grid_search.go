package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cowsim/internal/experiment"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of parameter values and keeps the
// one with the smallest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("grid search: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs one experiment per grid point. Points whose build or run fails,
// or whose metric is undefined, are recorded but never chosen. An error is
// returned only on cancellation or when no point produced a value.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(1)}
	var trials []Trial

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best, &trials); err != nil {
		return best, trials, err
	}
	if best.Params == nil {
		return best, trials, fmt.Errorf("grid search: no trial produced %s", metricName)
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		trial := Trial{Params: current, Value: math.NaN()}
		trial.Err = evaluate(ctx, buildExperiment, current, metricName, &trial.Value)
		*trials = append(*trials, trial)

		if trial.Err == nil && trial.Value < best.Value {
			*best = trial
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best, trials); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(
	ctx context.Context,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	params map[string]float64,
	metricName string,
	out *float64,
) error {
	exp, err := buildExperiment(params)
	if err != nil {
		return err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return result.Errors[0]
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		return fmt.Errorf("metric %s not recorded", metricName)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("metric %s undefined", metricName)
	}
	*out = val
	return nil
}
