package sim

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds a fresh, fully populated simulator for one ensemble member.
type Factory func(idx int) (*Simulator, error)

// Ensemble runs independent simulators concurrently, one goroutine each.
type Ensemble struct {
	factory Factory
	numRuns int
}

func NewEnsemble(f Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: f, numRuns: numRuns}
}

// Run returns results in member order. The first build or run error wins.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.factory(idx)
			if err != nil {
				errs[idx] = fmt.Errorf("ensemble member %d: %w", idx, err)
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
