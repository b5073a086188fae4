package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same scenario across independent runners in
// parallel. Each run gets a freshly built runner so that stateful
// cooling strategies (phase-change budgets in particular) are never
// shared between goroutines.
type Ensemble struct {
	build   func() (*Runner, error)
	numRuns int
}

func NewEnsemble(build func() (*Runner, error), numRuns int) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			runner, err := e.build()
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx, cfg)
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
