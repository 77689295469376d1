package optim

import (
	"context"
	"testing"

	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/experiment"
)

func pairBuilder(t *testing.T) func(map[string]float64) (*experiment.Experiment, error) {
	t.Helper()
	registry := experiment.NewRegistry()
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := config.GetPreset("pair")
		cfg.Duration = 0.2
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg, 10)
		if err := exp.Setup(registry.DefaultMetrics(cfg)); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func TestGridSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"dt", "g"}, [][]float64{{0.01, -1}, {0, 10000}})
	if err != nil {
		t.Fatal(err)
	}

	best, trials, err := g.Search(context.Background(), pairBuilder(t), "bounded")
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 4 {
		t.Fatalf("trials = %d, want 4", len(trials))
	}
	failed := 0
	for _, tr := range trials {
		if tr.Err != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("negative dt should fail twice, failed %d", failed)
	}
	if best.Params["dt"] != 0.01 || best.Err != nil {
		t.Errorf("best = %+v", best)
	}
}

func TestGridSearchNoValidTrial(t *testing.T) {
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{-1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.Search(context.Background(), pairBuilder(t), "bounded"); err == nil {
		t.Error("expected error when every trial fails")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{0.01}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, pairBuilder(t), "bounded"); err == nil {
		t.Error("cancelled search returned no error")
	}
}

func TestNewGridSearchValidates(t *testing.T) {
	if _, err := NewGridSearch([]string{"dt"}, nil); err == nil {
		t.Error("mismatched ranges accepted")
	}
	if _, err := NewGridSearch([]string{"dt"}, [][]float64{{}}); err == nil {
		t.Error("empty range accepted")
	}
}
