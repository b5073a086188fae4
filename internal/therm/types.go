package therm

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (s State) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (s State) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// CoolingStrategy computes per-zone heat-removal power (W). Positive values
// remove heat; negative values are allowed and mean net warming. Called once
// per outer simulation step, never sub-stepped.
type CoolingStrategy interface {
	CoolingPower(temps State) State
}

// HeatSource provides external per-zone heat generation (W) for a constant
// current applied over a duration. May fail with ErrBackendUnavailable;
// callers must treat that as "no additional heat", not a fatal error.
type HeatSource interface {
	HeatPerZone(current, duration float64, zones int) (State, error)
}

type CoolingLabel string

const (
	ActiveCooling   CoolingLabel = "ACTIVE_COOLING"
	NoCoolingNeeded CoolingLabel = "NO_COOLING_NEEDED"
)

type ZoneStatus string

const (
	StatusNormal     ZoneStatus = "NORMAL"
	StatusOverheated ZoneStatus = "OVERHEATED"
)

type Metric interface {
	Name() string
	Observe(step int, temps State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, temps State, labels []CoolingLabel, status []ZoneStatus)
}

// LabelObserver is an optional capability for metrics that also need the
// per-zone cooling labels. The runner feeds labels to any Metric
// satisfying it.
type LabelObserver interface {
	ObserveLabels(labels []CoolingLabel)
}

// History is a recorded temperature trajectory: one row per simulation step,
// one column per zone.
type History [][]float64

func (h History) Steps() int {
	return len(h)
}

func (h History) Zones() int {
	if len(h) == 0 {
		return 0
	}
	return len(h[0])
}

// Validate checks that the history is a non-empty rectangular 2-D table.
func (h History) Validate() error {
	if len(h) == 0 {
		return &ValidationError{Field: "history", Reason: "empty"}
	}
	zones := len(h[0])
	if zones == 0 {
		return &ValidationError{Field: "history", Reason: "rows have no zones"}
	}
	for i, row := range h {
		if len(row) != zones {
			return &ValidationError{
				Field:  "history",
				Reason: fmt.Sprintf("not two-dimensional: row %d has %d zones, want %d", i, len(row), zones),
			}
		}
	}
	return nil
}

func (h History) MaxTemp() float64 {
	m := math.Inf(-1)
	for _, row := range h {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

// ZoneSeries extracts the temperature trace of a single zone.
func (h History) ZoneSeries(zone int) []float64 {
	series := make([]float64, 0, len(h))
	for _, row := range h {
		if zone >= 0 && zone < len(row) {
			series = append(series, row[zone])
		}
	}
	return series
}

func (h History) Final() State {
	if len(h) == 0 {
		return nil
	}
	return State(h[len(h)-1]).Clone()
}
