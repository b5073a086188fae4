package therm

import (
	"errors"
	"fmt"
)

// Domain errors for thermal simulation operations.
var (
	// ErrInvalidConfig indicates a physical parameter outside its valid range.
	ErrInvalidConfig = errors.New("therm: invalid model configuration")

	// ErrBackendUnavailable indicates an optional external backend is absent.
	// Heat-source callers must treat this as "no additional heat".
	ErrBackendUnavailable = errors.New("therm: external backend unavailable")

	// ErrUnknownStrategy indicates a cooling-strategy name with no registration.
	ErrUnknownStrategy = errors.New("therm: unknown cooling strategy")
)

// ValidationError reports malformed caller input: an external-heat vector
// whose length does not match the zone count, or a temperature history that
// is not a rectangular 2-D table. Validation happens before any state
// mutation, so a failed call leaves the model untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("therm: invalid %s: %s", e.Field, e.Reason)
}

// SolverInfeasibleError reports that the predictive controller cannot satisfy
// its temperature constraints over the horizon even at maximum cooling
// authority. It is returned to the caller, never silently degraded.
type SolverInfeasibleError struct {
	Horizon        int
	MaxTemperature float64
}

func (e *SolverInfeasibleError) Error() string {
	return fmt.Sprintf("therm: no feasible cooling plan over %d steps keeps all zones below %.1f°C",
		e.Horizon, e.MaxTemperature)
}

// DependencyError wraps ErrBackendUnavailable with the identity of the
// missing backend and a hint for enabling it.
type DependencyError struct {
	Backend string
	Hint    string
}

func (e *DependencyError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("therm: %s backend unavailable", e.Backend)
	}
	return fmt.Sprintf("therm: %s backend unavailable (%s)", e.Backend, e.Hint)
}

func (e *DependencyError) Unwrap() error {
	return ErrBackendUnavailable
}
