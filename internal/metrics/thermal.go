package metrics

import (
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// PeakTemperature tracks the hottest zone temperature seen over a run.
type PeakTemperature struct {
	name    string
	peak    float64
	samples int
}

func NewPeakTemperature() *PeakTemperature {
	return &PeakTemperature{name: "peak_temperature"}
}

func (p *PeakTemperature) Name() string { return p.name }

func (p *PeakTemperature) Observe(step int, temps therm.State) {
	if len(temps) == 0 {
		return
	}
	max := temps.Max()
	if p.samples == 0 || max > p.peak {
		p.peak = max
	}
	p.samples++
}

func (p *PeakTemperature) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.peak
}

func (p *PeakTemperature) Reset() {
	p.peak = 0
	p.samples = 0
}

// OverheatFraction reports the share of (step, zone) samples whose
// temperature exceeded the threshold.
type OverheatFraction struct {
	name      string
	threshold float64
	hot       int
	samples   int
}

func NewOverheatFraction(threshold float64) *OverheatFraction {
	return &OverheatFraction{name: "overheat_fraction", threshold: threshold}
}

func (o *OverheatFraction) Name() string { return o.name }

func (o *OverheatFraction) Observe(step int, temps therm.State) {
	for _, t := range temps {
		if t > o.threshold {
			o.hot++
		}
		o.samples++
	}
}

func (o *OverheatFraction) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.hot) / float64(o.samples)
}

func (o *OverheatFraction) Reset() {
	o.hot = 0
	o.samples = 0
}

// CoolingEffort counts emergency fallback activations over a run, a
// proxy for active-cooling energy. The count comes from cooling labels,
// so it implements therm.LabelObserver on top of therm.Metric.
type CoolingEffort struct {
	name        string
	activations int
}

func NewCoolingEffort() *CoolingEffort {
	return &CoolingEffort{name: "cooling_effort"}
}

func (c *CoolingEffort) Name() string { return c.name }

func (c *CoolingEffort) Observe(step int, temps therm.State) {}

func (c *CoolingEffort) ObserveLabels(labels []therm.CoolingLabel) {
	for _, l := range labels {
		if l == therm.ActiveCooling {
			c.activations++
		}
	}
}

func (c *CoolingEffort) Value() float64 {
	return float64(c.activations)
}

func (c *CoolingEffort) Reset() {
	c.activations = 0
}
