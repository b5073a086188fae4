// Package sweep evaluates a pack scenario across a grid of parameter
// values. Each swept parameter contributes a fixed-size linspace and the
// grid is their cartesian product, so two swept parameters produce 25
// cases.
package sweep

import (
	"context"
	"runtime"
	"sync"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
)

// GridPoints is the number of samples per swept parameter.
const GridPoints = 5

// Param is one swept dimension over [Min, Max].
type Param struct {
	Name string
	Min  float64
	Max  float64
}

// Case holds one grid point's parameter values by name.
type Case map[string]float64

// CaseResult is the outcome of one case: the values applied, the
// hottest temperature seen anywhere in the run, and any per-case error.
type CaseResult struct {
	Values  Case
	MaxTemp float64
	Err     error
}

// Grid expands the swept parameters into cases, first parameter varying
// slowest. No parameters yields a single empty case.
func Grid(params []Param) []Case {
	cases := []Case{{}}
	for _, p := range params {
		expanded := make([]Case, 0, len(cases)*GridPoints)
		for _, c := range cases {
			for _, v := range linspace(p.Min, p.Max, GridPoints) {
				next := make(Case, len(c)+1)
				for k, val := range c {
					next[k] = val
				}
				next[p.Name] = v
				expanded = append(expanded, next)
			}
		}
		cases = expanded
	}
	return cases
}

// Run evaluates every grid case over a pool of workers and returns
// results in grid order. Case failures land in CaseResult.Err; only
// context cancellation fails the sweep itself.
func Run(ctx context.Context, base battery.Params, params []Param, cfg sim.RunConfig, workers int) ([]CaseResult, error) {
	cases := Grid(params)
	results := make([]CaseResult, len(cases))

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = runCase(base, cases[idx], cfg)
			}
		}()
	}

	dispatch := func() error {
		defer close(jobs)
		for i := range cases {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	}

	err := dispatch()
	wg.Wait()
	if err != nil {
		return results, err
	}
	return results, nil
}

func runCase(base battery.Params, c Case, cfg sim.RunConfig) CaseResult {
	result := CaseResult{Values: c}

	params := base
	for name, value := range c {
		if err := params.Set(name, value); err != nil {
			result.Err = err
			return result
		}
	}

	pack, err := battery.NewPack(params)
	if err != nil {
		result.Err = err
		return result
	}

	history, err := pack.Simulate(cfg.Current, cfg.Steps, cfg.Dt, cfg.ExternalHeat...)
	if err != nil {
		result.Err = err
		return result
	}

	result.MaxTemp = history.MaxTemp()
	return result
}

// Best returns the error-free case with the lowest max temperature. The
// second return is false when every case failed.
func Best(results []CaseResult) (CaseResult, bool) {
	best := CaseResult{}
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.MaxTemp < best.MaxTemp {
			best = r
			found = true
		}
	}
	return best, found
}

func linspace(lo, hi float64, n int) []float64 {
	vals := make([]float64, n)
	if n == 1 {
		vals[0] = lo
		return vals
	}
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}
