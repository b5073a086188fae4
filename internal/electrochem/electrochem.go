// Package electrochem feeds the pack model with heat computed by an
// external pseudo-two-dimensional (P2D) cell solver.
//
// The solver is an optional dependency resolved at call time, never at
// construction: [New] always succeeds for a known cell model, and
// [Source.HeatPerZone] reports a [therm.DependencyError] when no solver
// binary is installed. Callers are expected to treat that error as
// "no additional heat", not as a fatal failure.
//
// The solver contract is deliberately narrow: one invocation per step
// with a constant current, printing the total cell heating in watts on
// stdout. The total is split evenly across thermal zones; heterogeneous
// heat mapping is left to the solver side.
package electrochem

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

const (
	// EnvSolverPath names the environment variable that points at the
	// P2D solver binary, bypassing the PATH lookup.
	EnvSolverPath = "PACKSIM_P2D_SOLVER"

	// DefaultSolverName is searched on PATH when EnvSolverPath is unset.
	DefaultSolverName = "p2dsolve"
)

// Source computes per-zone heating by delegating one constant-current
// step to the external solver. Positive current means discharge.
type Source struct {
	Model string
}

// New returns a source for the given cell model, one of "SPM" or "DFN"
// (case insensitive). Solver availability is probed per call, so New
// succeeds even on machines without the solver installed.
func New(model string) (*Source, error) {
	name := strings.ToUpper(model)
	switch name {
	case "SPM", "DFN":
		return &Source{Model: name}, nil
	default:
		return nil, fmt.Errorf("unsupported cell model: %s", model)
	}
}

// HeatPerZone runs one constant-current step of the given duration and
// splits the solver's total heat evenly across zones.
func (s *Source) HeatPerZone(current, duration float64, zones int) (therm.State, error) {
	if zones < 1 {
		return nil, &therm.ValidationError{Field: "zones", Reason: "must be at least 1"}
	}

	path, err := solverPath()
	if err != nil {
		return nil, err
	}

	out, err := exec.Command(path,
		"--model", s.Model,
		"--current", strconv.FormatFloat(current, 'g', -1, 64),
		"--duration", strconv.FormatFloat(duration, 'g', -1, 64),
	).Output()
	if err != nil {
		return nil, fmt.Errorf("p2d solver: %w", err)
	}

	text := strings.TrimSpace(string(out))
	total, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("p2d solver output %q: %w", text, err)
	}
	return uniform(total, zones), nil
}

// solverPath resolves the solver binary, preferring the EnvSolverPath
// override over a PATH lookup.
func solverPath() (string, error) {
	if path := os.Getenv(EnvSolverPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &therm.DependencyError{
				Backend: "p2d",
				Hint:    fmt.Sprintf("%s points at %s, which does not exist", EnvSolverPath, path),
			}
		}
		return path, nil
	}

	path, err := exec.LookPath(DefaultSolverName)
	if err != nil {
		return "", &therm.DependencyError{
			Backend: "p2d",
			Hint:    fmt.Sprintf("install %s or set %s", DefaultSolverName, EnvSolverPath),
		}
	}
	return path, nil
}

// Constant is an always-available heat source spreading a fixed total
// power evenly across zones. It stands in for the solver in bench
// profiles and tests.
type Constant struct {
	TotalPower float64
}

func (c Constant) HeatPerZone(current, duration float64, zones int) (therm.State, error) {
	if zones < 1 {
		return nil, &therm.ValidationError{Field: "zones", Reason: "must be at least 1"}
	}
	return uniform(c.TotalPower, zones), nil
}

func uniform(total float64, zones int) therm.State {
	heat := make(therm.State, zones)
	for i := range heat {
		heat[i] = total / float64(zones)
	}
	return heat
}
