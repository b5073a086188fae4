package sim

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
)

func TestEnsemble_IndependentRuns(t *testing.T) {
	build := func() (*Runner, error) {
		pack, err := battery.NewPack(battery.DefaultParams())
		if err != nil {
			return nil, err
		}
		pack.SetCooling(cooling.NewPhaseChange(1000, 0.02, 30))
		return New(pack), nil
	}

	ensemble := NewEnsemble(build, 4)
	results, err := ensemble.Run(context.Background(), RunConfig{Current: 0, Steps: 5, Dt: 1, ExternalHeat: []float64{5000}})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	// Deterministic scenario plus per-run strategy state: every
	// trajectory must be identical. Shared phase-change budgets would
	// diverge.
	first := results[0].History.Final()
	for i, res := range results[1:] {
		if res.History.Steps() != 5 {
			t.Fatalf("run %d history has %d steps, want 5", i+1, res.History.Steps())
		}
		final := res.History.Final()
		for z := range final {
			if math.Abs(final[z]-first[z]) > 1e-12 {
				t.Errorf("run %d zone %d = %v, differs from run 0 (%v)", i+1, z, final[z], first[z])
			}
		}
	}
}

func TestEnsemble_BuildErrorPropagates(t *testing.T) {
	ensemble := NewEnsemble(func() (*Runner, error) {
		return nil, fmt.Errorf("bad scenario")
	}, 2)

	if _, err := ensemble.Run(context.Background(), RunConfig{Steps: 1, Dt: 1}); err == nil {
		t.Fatal("expected build error to propagate")
	}
}
