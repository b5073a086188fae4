// Package control provides the predictive cooling controller.
//
// [MPC] plans coolant setpoints over a receding horizon: it predicts zone
// temperatures with a simplified linear surrogate, constrains every
// predicted step to stay below the safety limit, and minimizes the squared
// coolant-temperature depression. Only the first step of the plan is
// applied, as a fresh [cooling.Liquid] instance.
//
// # Usage
//
//	mpc := control.NewMPC() // horizon 5, limit 45°C
//	strategy, err := mpc.Plan(pack.Temperatures(), pack.Ambient())
//	if err == nil {
//	    pack.SetCooling(strategy)
//	}
//
// Plan re-solves from scratch on every call and keeps no state between
// calls. An infeasible horizon is reported as [therm.SolverInfeasibleError];
// the caller decides whether to keep the previous strategy or fall back to
// passive cooling.
package control
