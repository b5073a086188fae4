// Package fem couples the lumped pack model to an optional
// finite-element boundary sub-model. Only the coupling contract lives
// here; [ZeroFlux] is the shipped implementation until a real FEM
// backend lands.
package fem

import "github.com/zhangluna929/Thermal-Management-Model/internal/therm"

// BoundaryCoupler supplies extra per-zone heat (W) from a boundary
// sub-model, evaluated against the current zone temperatures.
type BoundaryCoupler interface {
	BoundaryFlux(temps therm.State) therm.State
}

// ZeroFlux is the no-op coupler: adiabatic boundaries everywhere.
type ZeroFlux struct{}

func (ZeroFlux) BoundaryFlux(temps therm.State) therm.State {
	return make(therm.State, len(temps))
}
