package sim

import (
	"context"
	"fmt"
	"sync"
)

// Factory builds a fresh simulator for one seed. Every call must return
// independent boat, strategy and metric instances.
type Factory func(seed int64) (*Simulator, error)

type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := e.build(cfgCopy.Seed)
			if err != nil {
				errs[idx] = fmt.Errorf("seed %d: %w", cfgCopy.Seed, err)
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
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

// SuccessRate is the fraction of results that completed.
func SuccessRate(results []*Result) float64 {
	if len(results) == 0 {
		return 0
	}
	n := 0
	for _, r := range results {
		if r != nil && r.Completed {
			n++
		}
	}
	return float64(n) / float64(len(results))
}
