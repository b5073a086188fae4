package sim

import (
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Planner produces a fresh cooling strategy for the current pack
// temperatures. Implemented by control.MPC.
type Planner interface {
	Plan(temps therm.State, ambient float64) (*cooling.Liquid, error)
}

// RunConfig describes one simulation scenario.
type RunConfig struct {
	// Current is the applied pack current in amps, held constant for the
	// whole run. Positive for discharge.
	Current float64

	// Steps is the number of time steps to advance.
	Steps int

	// Dt is the step length in seconds.
	Dt float64

	// ExternalHeat is an optional fixed heat input in watts: empty for
	// none, a single value broadcast to all zones, or one value per zone.
	ExternalHeat []float64

	// ControlEvery is the planner re-plan cadence in steps. Values below
	// 1 mean every step. Ignored when no planner is installed.
	ControlEvery int
}

// Result collects everything a run produced.
type Result struct {
	History    therm.History
	Labels     [][]therm.CoolingLabel
	Status     [][]therm.ZoneStatus
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}
