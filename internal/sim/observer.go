package sim

import (
	"github.com/rs/zerolog"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// TraceObserver logs one debug line per step with the zone extremes and
// cooling activity.
type TraceObserver struct {
	log zerolog.Logger
}

func NewTraceObserver(log zerolog.Logger) *TraceObserver {
	return &TraceObserver{log: log}
}

func (t *TraceObserver) OnStep(step int, temps therm.State, labels []therm.CoolingLabel, status []therm.ZoneStatus) {
	active := 0
	for _, l := range labels {
		if l == therm.ActiveCooling {
			active++
		}
	}
	overheated := 0
	for _, s := range status {
		if s == therm.StatusOverheated {
			overheated++
		}
	}

	t.log.Debug().
		Int("step", step).
		Float64("t_min", temps.Min()).
		Float64("t_max", temps.Max()).
		Float64("t_mean", temps.Mean()).
		Int("active_cooling", active).
		Int("overheated", overheated).
		Msg("step")
}
