package cooling

import (
	"fmt"
	"sort"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Spec selects and parameterizes a cooling strategy by name. Zero-valued
// fields fall back to the strategy's defaults.
type Spec struct {
	Type               string  `yaml:"type"`
	HTC                float64 `yaml:"htc"`
	CoolantTemperature float64 `yaml:"coolant_temperature"`
	AreaPerZone        float64 `yaml:"area_per_zone"`
	FusionEnthalpy     float64 `yaml:"fusion_enthalpy"`
	MassPerZone        float64 `yaml:"mass_per_zone"`
	PhaseTemperature   float64 `yaml:"phase_temperature"`
}

var builders = map[string]func(Spec) therm.CoolingStrategy{
	"passive": func(Spec) therm.CoolingStrategy { return NewNone() },
	"liquid": func(s Spec) therm.CoolingStrategy {
		htc := s.HTC
		if htc == 0 {
			htc = DefaultHTC
		}
		coolant := s.CoolantTemperature
		if coolant == 0 {
			coolant = DefaultCoolantTemp
		}
		area := s.AreaPerZone
		if area == 0 {
			area = DefaultAreaPerZone
		}
		return NewLiquid(htc, coolant, area)
	},
	"pcm": func(s Spec) therm.CoolingStrategy {
		enthalpy := s.FusionEnthalpy
		if enthalpy == 0 {
			enthalpy = DefaultFusionEnthalpy
		}
		mass := s.MassPerZone
		if mass == 0 {
			mass = DefaultMassPerZone
		}
		phase := s.PhaseTemperature
		if phase == 0 {
			phase = DefaultPhaseTemp
		}
		return NewPhaseChange(enthalpy, mass, phase)
	},
}

// New builds a fresh strategy instance for the named type. Every call
// returns a new instance, so PhaseChange depletion state is never shared
// between runs.
func New(spec Spec) (therm.CoolingStrategy, error) {
	build, ok := builders[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", therm.ErrUnknownStrategy, spec.Type)
	}
	return build(spec), nil
}

// Describe reports the registry name for an installed strategy instance,
// or "custom" for strategies built outside the registry.
func Describe(c therm.CoolingStrategy) string {
	switch c.(type) {
	case nil:
		return "none"
	case *None:
		return "passive"
	case *Liquid:
		return "liquid"
	case *PhaseChange:
		return "pcm"
	default:
		return "custom"
	}
}

// Names lists the registered strategy types in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
