package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/fem"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Runner drives one pack through a scenario step by step: re-plan
// cooling, gather external heat, advance the zone model, apply cooling,
// record. Each step's snapshot is taken after cooling, matching the
// pack's own Simulate loop.
type Runner struct {
	pack      *battery.Pack
	source    therm.HeatSource
	coupler   fem.BoundaryCoupler
	planner   Planner
	metrics   []therm.Metric
	observers []therm.Observer
	log       zerolog.Logger
}

func New(pack *battery.Pack) *Runner {
	return &Runner{
		pack:      pack,
		metrics:   make([]therm.Metric, 0),
		observers: make([]therm.Observer, 0),
		log:       zerolog.Nop(),
	}
}

func (r *Runner) AddMetric(m therm.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o therm.Observer) { r.observers = append(r.observers, o) }

// SetHeatSource installs an electrochemical heat provider consulted every
// step. When it reports therm.ErrBackendUnavailable the runner logs one
// warning and continues without it.
func (r *Runner) SetHeatSource(src therm.HeatSource) { r.source = src }

// SetCoupler installs a boundary sub-model whose flux joins the external
// heat each step.
func (r *Runner) SetCoupler(c fem.BoundaryCoupler) { r.coupler = c }

// SetPlanner installs a cooling planner, re-run every ControlEvery steps.
// On an infeasible plan the pack keeps its previous strategy.
func (r *Runner) SetPlanner(p Planner) { r.planner = p }

func (r *Runner) SetLogger(log zerolog.Logger) { r.log = log }

func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	zones := r.pack.NumZones()
	base, err := baseHeat(cfg.ExternalHeat, zones)
	if err != nil {
		return nil, err
	}

	every := cfg.ControlEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		History: make(therm.History, 0, cfg.Steps),
		Labels:  make([][]therm.CoolingLabel, 0, cfg.Steps),
		Status:  make([][]therm.ZoneStatus, 0, cfg.Steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	heat := make([]float64, zones)
	sourceDown := false

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if r.planner != nil && i%every == 0 {
			plan, err := r.planner.Plan(r.pack.Temperatures(), r.pack.Ambient())
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("step %d: %w", i, err))
				r.log.Warn().Int("step", i).Err(err).Msg("keeping previous cooling strategy")
			} else {
				r.pack.SetCooling(plan)
			}
		}

		copy(heat, base)
		if r.source != nil && !sourceDown {
			q, err := r.source.HeatPerZone(cfg.Current, cfg.Dt, zones)
			switch {
			case errors.Is(err, therm.ErrBackendUnavailable):
				sourceDown = true
				r.log.Warn().Err(err).Msg("heat source unavailable, continuing without it")
			case err != nil:
				result.Errors = append(result.Errors, fmt.Errorf("step %d: heat source: %w", i, err))
			default:
				for z := range heat {
					heat[z] += q[z]
				}
			}
		}
		if r.coupler != nil {
			flux := r.coupler.BoundaryFlux(r.pack.Temperatures())
			for z := range heat {
				heat[z] += flux[z]
			}
		}

		temps, err := r.pack.Advance(cfg.Current, cfg.Dt, heat...)
		if err != nil {
			return result, fmt.Errorf("step %d: %w", i, err)
		}
		if !temps.IsValid() {
			result.Errors = append(result.Errors, fmt.Errorf("step %d: invalid temperatures (NaN/Inf)", i))
			break
		}

		labels := r.pack.ApplyCooling(battery.DefaultCoolingTrigger)
		status := r.pack.Status()
		snapshot := r.pack.Temperatures()

		result.History = append(result.History, snapshot)
		result.Labels = append(result.Labels, labels)
		result.Status = append(result.Status, status)
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(i, snapshot)
			if lo, ok := m.(therm.LabelObserver); ok {
				lo.ObserveLabels(labels)
			}
		}
		for _, obs := range r.observers {
			obs.OnStep(i, snapshot, labels, status)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) validateConfig(cfg RunConfig) error {
	if cfg.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", cfg.Steps)
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	return nil
}

// baseHeat expands the configured external heat into a per-zone vector:
// empty, a single broadcast value, or exactly one value per zone.
func baseHeat(external []float64, zones int) ([]float64, error) {
	base := make([]float64, zones)
	switch len(external) {
	case 0:
	case 1:
		for i := range base {
			base[i] = external[0]
		}
	case zones:
		copy(base, external)
	default:
		return nil, &therm.ValidationError{
			Field:  "external_heat",
			Reason: fmt.Sprintf("length %d does not match %d zones", len(external), zones),
		}
	}
	return base, nil
}
