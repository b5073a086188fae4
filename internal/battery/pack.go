package battery

import (
	"fmt"
	"math"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

const (
	// MaxSafeTemperature is the hard physical ceiling (°C); temperatures are
	// clamped here rather than raising an error.
	MaxSafeTemperature = 85.0

	// DefaultCoolingTrigger is the per-zone threshold (°C) above which the
	// emergency fallback removes an extra degree per step.
	DefaultCoolingTrigger = 45.0

	// OverheatThreshold is the advisory status boundary (°C).
	OverheatThreshold = 60.0

	// arrheniusReference is the temperature (°C) at which internal
	// resistance equals its base value.
	arrheniusReference = 25.0
)

// Params holds the immutable physical parameters of a pack.
type Params struct {
	Capacity            float64 `yaml:"capacity"`             // Ah
	InternalResistance  float64 `yaml:"internal_resistance"`  // Ω at 25°C
	AmbientTemperature  float64 `yaml:"ambient_temperature"`  // °C
	HeatCapacity        float64 `yaml:"heat_capacity"`        // J/kg·°C
	SurfaceArea         float64 `yaml:"surface_area"`         // m²
	ThermalConductivity float64 `yaml:"thermal_conductivity"` // W/m·°C
	ContactResistance   float64 `yaml:"contact_resistance"`   // K/W per interface
	ArrheniusCoeff      float64 `yaml:"arrhenius_coeff"`      // 1/°C
	ConvectiveCoeff     float64 `yaml:"convective_coeff"`     // W/m²·°C
	Emissivity          float64 `yaml:"emissivity"`
	StefanBoltzmann     float64 `yaml:"stefan_boltzmann"` // W/m²·K⁴
	NumZones            int     `yaml:"num_zones"`
}

func DefaultParams() Params {
	return Params{
		Capacity:            50,
		InternalResistance:  0.1,
		AmbientTemperature:  25,
		HeatCapacity:        2000,
		SurfaceArea:         0.01,
		ThermalConductivity: 0.5,
		ContactResistance:   0.002,
		ArrheniusCoeff:      0.01,
		ConvectiveCoeff:     10,
		Emissivity:          0.9,
		StefanBoltzmann:     5.67e-8,
		NumZones:            3,
	}
}

func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"capacity", p.Capacity},
		{"internal_resistance", p.InternalResistance},
		{"heat_capacity", p.HeatCapacity},
		{"surface_area", p.SurfaceArea},
		{"thermal_conductivity", p.ThermalConductivity},
		{"contact_resistance", p.ContactResistance},
		{"arrhenius_coeff", p.ArrheniusCoeff},
		{"convective_coeff", p.ConvectiveCoeff},
		{"emissivity", p.Emissivity},
		{"stefan_boltzmann", p.StefanBoltzmann},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", therm.ErrInvalidConfig, c.name, c.value)
		}
	}
	if p.NumZones < 1 {
		return fmt.Errorf("%w: num_zones must be at least 1, got %d", therm.ErrInvalidConfig, p.NumZones)
	}
	return nil
}

// Set overrides a parameter by its config name. Used by sweeps.
func (p *Params) Set(name string, value float64) error {
	switch name {
	case "capacity":
		p.Capacity = value
	case "internal_resistance":
		p.InternalResistance = value
	case "ambient_temperature":
		p.AmbientTemperature = value
	case "heat_capacity":
		p.HeatCapacity = value
	case "surface_area":
		p.SurfaceArea = value
	case "thermal_conductivity":
		p.ThermalConductivity = value
	case "contact_resistance":
		p.ContactResistance = value
	case "arrhenius_coeff":
		p.ArrheniusCoeff = value
	case "convective_coeff":
		p.ConvectiveCoeff = value
	case "emissivity":
		p.Emissivity = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// Named returns the sweepable parameters keyed by config name.
func (p Params) Named() map[string]float64 {
	return map[string]float64{
		"capacity":             p.Capacity,
		"internal_resistance":  p.InternalResistance,
		"ambient_temperature":  p.AmbientTemperature,
		"heat_capacity":        p.HeatCapacity,
		"surface_area":         p.SurfaceArea,
		"thermal_conductivity": p.ThermalConductivity,
		"contact_resistance":   p.ContactResistance,
		"arrhenius_coeff":      p.ArrheniusCoeff,
		"convective_coeff":     p.ConvectiveCoeff,
		"emissivity":           p.Emissivity,
	}
}

// Pack is the mutable thermal state of a battery pack. A Pack is owned by a
// single simulation driver; it is not safe for concurrent use.
type Pack struct {
	params       Params
	temperature  therm.State
	specificHeat []float64 // J/°C per zone
	degradation  []float64 // dimensionless per zone
	powerLoss    []float64 // scratch, refilled each Advance
	cooling      therm.CoolingStrategy
}

// NewPack constructs a pack with every zone at ambient temperature,
// per-zone specific heat 1000 J/°C and degradation factor 1. No cooling
// strategy is installed; until SetCooling is called the pack cools
// passively.
func NewPack(p Params) (*Pack, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	temps := make(therm.State, p.NumZones)
	specific := make([]float64, p.NumZones)
	degradation := make([]float64, p.NumZones)
	for i := 0; i < p.NumZones; i++ {
		temps[i] = p.AmbientTemperature
		specific[i] = 1000.0
		degradation[i] = 1.0
	}

	return &Pack{
		params:       p,
		temperature:  temps,
		specificHeat: specific,
		degradation:  degradation,
		powerLoss:    make([]float64, p.NumZones),
	}, nil
}

func (p *Pack) Params() Params                 { return p.params }
func (p *Pack) NumZones() int                  { return p.params.NumZones }
func (p *Pack) Ambient() float64               { return p.params.AmbientTemperature }
func (p *Pack) Cooling() therm.CoolingStrategy { return p.cooling }

// SetCooling installs a cooling strategy. A nil strategy restores passive
// behaviour. Safe to call between steps.
func (p *Pack) SetCooling(c therm.CoolingStrategy) { p.cooling = c }

// Temperatures returns a copy of the current per-zone temperatures.
func (p *Pack) Temperatures() therm.State { return p.temperature.Clone() }

// SetTemperatures seeds the per-zone temperatures, for scenario setup.
func (p *Pack) SetTemperatures(temps []float64) error {
	if len(temps) != p.params.NumZones {
		return &therm.ValidationError{
			Field:  "temperatures",
			Reason: fmt.Sprintf("length %d does not match zone count %d", len(temps), p.params.NumZones),
		}
	}
	copy(p.temperature, temps)
	return nil
}

// SetSpecificHeat overrides the per-zone specific heat values (J/°C).
func (p *Pack) SetSpecificHeat(values []float64) error {
	if len(values) != p.params.NumZones {
		return &therm.ValidationError{
			Field:  "specific_heat",
			Reason: fmt.Sprintf("length %d does not match zone count %d", len(values), p.params.NumZones),
		}
	}
	for i, v := range values {
		if v <= 0 {
			return fmt.Errorf("%w: specific_heat[%d] must be positive, got %g", therm.ErrInvalidConfig, i, v)
		}
	}
	copy(p.specificHeat, values)
	return nil
}

// SetDegradationFactors overrides the per-zone degradation multipliers.
func (p *Pack) SetDegradationFactors(values []float64) error {
	if len(values) != p.params.NumZones {
		return &therm.ValidationError{
			Field:  "degradation_factor",
			Reason: fmt.Sprintf("length %d does not match zone count %d", len(values), p.params.NumZones),
		}
	}
	for i, v := range values {
		if v <= 0 {
			return fmt.Errorf("%w: degradation_factor[%d] must be positive, got %g", therm.ErrInvalidConfig, i, v)
		}
	}
	copy(p.degradation, values)
	return nil
}

// HeatGeneration returns I²R heat generation (W) with Arrhenius-scaled
// internal resistance: R_eff = R0·exp(k·(T̄ − 25)). The squared current makes
// heating independent of charge/discharge direction.
func (p *Pack) HeatGeneration(current float64) float64 {
	reff := p.params.InternalResistance *
		math.Exp(p.params.ArrheniusCoeff*(p.temperature.Mean()-arrheniusReference))
	return current * current * reff
}

// ZoneHeatLoss returns the net heat (W) leaving zone i: conduction to both
// neighbours, convection and radiation to ambient. Negative values mean net
// heat gain from a hotter neighbour and are never clamped.
func (p *Pack) ZoneHeatLoss(i int) float64 {
	t := p.temperature
	ambient := p.params.AmbientTemperature

	var condLeft, condRight float64
	if i > 0 {
		condLeft = (t[i] - t[i-1]) / p.params.ContactResistance
	}
	if i < p.params.NumZones-1 {
		condRight = (t[i] - t[i+1]) / p.params.ContactResistance
	}

	conv := p.params.ConvectiveCoeff * (t[i] - ambient)

	rad := p.params.Emissivity * p.params.StefanBoltzmann * p.params.SurfaceArea *
		(math.Pow(t[i], 4) - math.Pow(ambient, 4))

	return condLeft + condRight + conv + rad
}

// Advance integrates one explicit-Euler step of length dt under the given
// current. externalHeat is optional: a single value broadcasts to every
// zone, a full-length slice supplies per-zone heat, anything else is a
// ValidationError raised before any state changes.
//
// Zones update in index order, so conduction for zone i uses the already
// updated (and clamped) temperature of zone i-1.
func (p *Pack) Advance(current, dt float64, externalHeat ...float64) (therm.State, error) {
	n := p.params.NumZones
	if len(externalHeat) > 1 && len(externalHeat) != n {
		return nil, &therm.ValidationError{
			Field:  "external_heat",
			Reason: fmt.Sprintf("length %d does not match zone count %d", len(externalHeat), n),
		}
	}

	gen := p.HeatGeneration(current)
	for i := 0; i < n; i++ {
		p.powerLoss[i] = gen
	}
	switch len(externalHeat) {
	case 0:
	case 1:
		for i := 0; i < n; i++ {
			p.powerLoss[i] += externalHeat[0]
		}
	default:
		for i := 0; i < n; i++ {
			p.powerLoss[i] += externalHeat[i]
		}
	}

	ambient := p.params.AmbientTemperature
	for i := 0; i < n; i++ {
		dT := (p.powerLoss[i] - p.ZoneHeatLoss(i)) * dt / p.specificHeat[i]
		p.temperature[i] += dT * p.degradation[i]
		p.temperature[i] = clamp(p.temperature[i], ambient, MaxSafeTemperature)
	}

	return p.temperature.Clone(), nil
}

// ApplyCooling runs the two cooling tiers in order: the installed strategy's
// power converted to a temperature delta (power/specificHeat, deliberately
// not scaled by dt), then a fallback that removes a fixed 1°C from any zone
// still above maxTemperature. Returns the per-zone fallback labels.
func (p *Pack) ApplyCooling(maxTemperature float64) []therm.CoolingLabel {
	if p.cooling != nil {
		power := p.cooling.CoolingPower(p.temperature)
		for i := 0; i < p.params.NumZones && i < len(power); i++ {
			p.temperature[i] -= power[i] / p.specificHeat[i]
		}
	}

	labels := make([]therm.CoolingLabel, p.params.NumZones)
	for i := 0; i < p.params.NumZones; i++ {
		if p.temperature[i] > maxTemperature {
			p.temperature[i] -= 1.0
			labels[i] = therm.ActiveCooling
		} else {
			labels[i] = therm.NoCoolingNeeded
		}
	}
	return labels
}

// Status classifies each zone against the overheat threshold. Pure read.
func (p *Pack) Status() []therm.ZoneStatus {
	status := make([]therm.ZoneStatus, p.params.NumZones)
	for i, t := range p.temperature {
		if t > OverheatThreshold {
			status[i] = therm.StatusOverheated
		} else {
			status[i] = therm.StatusNormal
		}
	}
	return status
}

// Simulate runs steps of Advance followed by ApplyCooling at the default
// trigger, snapshotting temperatures after each step. The returned history
// has shape [steps × numZones].
func (p *Pack) Simulate(current float64, steps int, dt float64, externalHeat ...float64) (therm.History, error) {
	history := make(therm.History, 0, steps)
	for t := 0; t < steps; t++ {
		if _, err := p.Advance(current, dt, externalHeat...); err != nil {
			return nil, err
		}
		p.ApplyCooling(DefaultCoolingTrigger)
		history = append(history, p.temperature.Clone())
	}
	return history, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
