// Package therm provides core primitives for battery-pack thermal simulation.
//
// The package defines the fundamental types and contracts shared by the
// thermal model, the cooling subsystems and the simulation harness:
//
//   - [State]: per-zone temperature vector (°C)
//   - [CoolingStrategy]: pluggable heat-removal capability
//   - [HeatSource]: external per-zone heat-generation provider
//   - [History]: recorded temperature trajectory, one row per step
//   - [Metric], [Observer]: simulation instrumentation hooks
//
// # Example
//
//	pack := battery.NewPack(params)
//	pack.SetCooling(cooling.NewLiquid(50, 25, 0.005))
//	history, _ := pack.Simulate(-5, 30, 1.0, nil)
//
// # Thread Safety
//
// A pack and its installed cooling strategy are owned by a single
// simulation driver. Parallel sweeps must construct independent instances
// per run; PhaseChange cooling carries depletion state that must never be
// shared across runs.
package therm
