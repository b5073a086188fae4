package cooling

import (
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Defaults for the liquid cold-plate model.
const (
	DefaultHTC         = 50.0
	DefaultCoolantTemp = 25.0
	DefaultAreaPerZone = 0.005
)

// Defaults for the phase-change material model.
const (
	DefaultFusionEnthalpy = 200e3
	DefaultMassPerZone    = 0.02
	DefaultPhaseTemp      = 35.0
)

// None performs no active cooling; ambient convection is already part of the
// pack's own heat losses.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) CoolingPower(temps therm.State) therm.State {
	return make(therm.State, len(temps))
}

// Liquid is a simplified cold-plate model: q = htc·area·(T − coolant) per
// zone. Power goes negative for zones colder than the coolant, which means
// net warming; that is physically correct and not clamped.
type Liquid struct {
	HTC                float64
	CoolantTemperature float64
	AreaPerZone        float64
}

func NewLiquid(htc, coolantTemp, areaPerZone float64) *Liquid {
	return &Liquid{
		HTC:                htc,
		CoolantTemperature: coolantTemp,
		AreaPerZone:        areaPerZone,
	}
}

func (l *Liquid) CoolingPower(temps therm.State) therm.State {
	power := make(therm.State, len(temps))
	for i, t := range temps {
		power[i] = l.HTC * l.AreaPerZone * (t - l.CoolantTemperature)
	}
	return power
}

// PhaseChange absorbs latent heat while zones sit above the phase-change
// temperature. The melt budget fusionEnthalpy·massPerZone depletes across
// the instance's lifetime: each call with any hot zone splits the entire
// remaining budget evenly over the hot zones, and once exhausted the
// material never cools again. Construct one instance per simulation run;
// sharing an instance across runs leaks depletion state.
type PhaseChange struct {
	FusionEnthalpy   float64
	MassPerZone      float64
	PhaseTemperature float64
	consumed         float64
}

func NewPhaseChange(fusionEnthalpy, massPerZone, phaseTemp float64) *PhaseChange {
	return &PhaseChange{
		FusionEnthalpy:   fusionEnthalpy,
		MassPerZone:      massPerZone,
		PhaseTemperature: phaseTemp,
	}
}

func (p *PhaseChange) CoolingPower(temps therm.State) therm.State {
	power := make(therm.State, len(temps))

	remaining := p.FusionEnthalpy*p.MassPerZone - p.consumed
	if remaining <= 0 {
		return power
	}

	hot := 0
	for _, t := range temps {
		if t > p.PhaseTemperature {
			hot++
		}
	}
	if hot == 0 {
		return power
	}

	perZone := remaining / float64(hot)
	for i, t := range temps {
		if t > p.PhaseTemperature {
			power[i] = perZone
		}
	}
	p.consumed += perZone * float64(hot)

	return power
}

// Consumed reports the latent energy spent so far (J).
func (p *PhaseChange) Consumed() float64 { return p.consumed }

// Remaining reports the latent budget left before exhaustion (J).
func (p *PhaseChange) Remaining() float64 {
	r := p.FusionEnthalpy*p.MassPerZone - p.consumed
	if r < 0 {
		return 0
	}
	return r
}
