package control

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/qp"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// MaxDepression is the largest allowed coolant-temperature depression (°C)
// below ambient, per step and zone.
const MaxDepression = 20.0

// surrogateMass is the fixed nominal thermal-mass divisor of the predictive
// rollout. It is deliberately decoupled from the pack's per-zone specific
// heat: the controller plans against a simplified plant.
const surrogateMass = 1000.0

// MPC is a receding-horizon cooling planner. All configuration is immutable
// during use; Plan carries no state between invocations.
type MPC struct {
	Horizon        int
	MaxTemperature float64
	TimeStep       float64
	HTC            float64
	Area           float64
}

func NewMPC() *MPC {
	return &MPC{
		Horizon:        5,
		MaxTemperature: 45.0,
		TimeStep:       1.0,
		HTC:            cooling.DefaultHTC,
		Area:           cooling.DefaultAreaPerZone,
	}
}

// Plan computes the optimal per-step coolant depressions for the horizon
// and returns a liquid strategy whose coolant temperature is ambient minus
// the mean first-step depression. When even maximum depression everywhere
// cannot keep every predicted step at or below MaxTemperature, Plan returns
// a SolverInfeasibleError and no strategy.
func (m *MPC) Plan(temps therm.State, ambient float64) (*cooling.Liquid, error) {
	if err := m.validate(temps); err != nil {
		return nil, err
	}

	zones := len(temps)
	n := m.Horizon * zones

	// One surrogate step removes htc·area·(T − coolant)·dt/mass degrees,
	// so each step is the affine map T ← (1−k)·T + k·ambient − k·delta.
	k := m.HTC * m.Area * m.TimeStep / surrogateMass

	if m.rolloutPeak(temps, ambient, k, MaxDepression) > m.MaxTemperature {
		return nil, &therm.SolverInfeasibleError{Horizon: m.Horizon, MaxTemperature: m.MaxTemperature}
	}

	// Constraint rows follow the recurrence: each step scales the previous
	// row by (1−k) and adds a fresh −k entry for its own delta.
	g := mat.NewDense(n, n, nil)
	h := make([]float64, n)
	free := temps.Clone()
	coeff := make([]float64, m.Horizon) // coeff[s] multiplies delta[s][z] in the current row
	for t := 0; t < m.Horizon; t++ {
		for s := 0; s < t; s++ {
			coeff[s] *= 1 - k
		}
		coeff[t] = -k
		for z := 0; z < zones; z++ {
			free[z] = (1-k)*free[z] + k*ambient
			row := t*zones + z
			for s := 0; s <= t; s++ {
				g.Set(row, s*zones+z, coeff[s])
			}
			h[row] = m.MaxTemperature - free[z]
		}
	}

	pdiag := make([]float64, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := 0; i < n; i++ {
		pdiag[i] = 2
		upper[i] = MaxDepression
	}

	sol, err := qp.NewSolver().Solve(&qp.Problem{
		PDiag: pdiag,
		Q:     make([]float64, n),
		G:     g,
		H:     h,
		Lower: lower,
		Upper: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("cooling plan: %w", err)
	}

	// Receding horizon: apply only the first step, averaged across zones.
	mean := 0.0
	for z := 0; z < zones; z++ {
		mean += sol.X[z]
	}
	mean /= float64(zones)

	return cooling.NewLiquid(m.HTC, ambient-mean, m.Area), nil
}

// rolloutPeak runs the surrogate forward with a uniform depression and
// returns the highest temperature over the constrained steps. With the
// depression at its maximum this is an exact feasibility certificate,
// because the rollout is monotone non-increasing in every delta.
func (m *MPC) rolloutPeak(temps therm.State, ambient, k, depression float64) float64 {
	state := temps.Clone()
	peak := math.Inf(-1)
	for t := 0; t < m.Horizon; t++ {
		for z := range state {
			state[z] = (1-k)*state[z] + k*ambient - k*depression
			if state[z] > peak {
				peak = state[z]
			}
		}
	}
	return peak
}

func (m *MPC) validate(temps therm.State) error {
	if m.Horizon < 1 {
		return fmt.Errorf("%w: horizon must be at least 1, got %d", therm.ErrInvalidConfig, m.Horizon)
	}
	if m.TimeStep <= 0 {
		return fmt.Errorf("%w: time step must be positive, got %g", therm.ErrInvalidConfig, m.TimeStep)
	}
	if m.HTC <= 0 || m.Area <= 0 {
		return fmt.Errorf("%w: htc and area must be positive, got %g and %g", therm.ErrInvalidConfig, m.HTC, m.Area)
	}
	if len(temps) == 0 {
		return &therm.ValidationError{Field: "temperatures", Reason: "empty"}
	}
	return nil
}
