package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/control"
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
)

const (
	DefaultCurrent = -5.0
	DefaultSteps   = 10
	DefaultDt      = 1.0
	DefaultOutDir  = "runs"
)

// Config is one complete scenario: pack parameters, cooling choice,
// controller settings and run shape. Loading merges the file over
// DefaultConfig, so partial files are fine.
type Config struct {
	Scenario     string         `yaml:"scenario"`
	Pack         battery.Params `yaml:"pack"`
	SpecificHeat []float64      `yaml:"specific_heat,omitempty"`
	Degradation  []float64      `yaml:"degradation,omitempty"`
	Cooling      cooling.Spec   `yaml:"cooling"`
	MPC          MPCConfig      `yaml:"mpc"`
	Run          RunConfig      `yaml:"run"`
	Output       OutputConfig   `yaml:"output"`
}

type MPCConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Horizon        int     `yaml:"horizon"`
	MaxTemperature float64 `yaml:"max_temperature"`
	HTC            float64 `yaml:"htc"`
	Area           float64 `yaml:"area_per_zone"`
	ControlEvery   int     `yaml:"control_every"`
}

type RunConfig struct {
	Current      float64           `yaml:"current"`
	Steps        int               `yaml:"steps"`
	Dt           float64           `yaml:"dt"`
	ExternalHeat []float64         `yaml:"external_heat,omitempty"`
	Electrochem  ElectrochemConfig `yaml:"electrochem"`
}

type ElectrochemConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Save  bool   `yaml:"save"`
	Plot  bool   `yaml:"plot"`
	Trace bool   `yaml:"trace"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "default",
		Pack:     battery.DefaultParams(),
		Cooling:  cooling.Spec{Type: "passive"},
		MPC: MPCConfig{
			Horizon:        5,
			MaxTemperature: battery.DefaultCoolingTrigger,
			ControlEvery:   1,
		},
		Run: RunConfig{
			Current:     DefaultCurrent,
			Steps:       DefaultSteps,
			Dt:          DefaultDt,
			Electrochem: ElectrochemConfig{Model: "SPM"},
		},
		Output: OutputConfig{Dir: DefaultOutDir, Save: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Pack.Validate(); err != nil {
		return err
	}
	if c.Run.Steps < 1 {
		return fmt.Errorf("run.steps must be at least 1, got %d", c.Run.Steps)
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("run.dt must be positive, got %g", c.Run.Dt)
	}
	if len(c.SpecificHeat) > 0 && len(c.SpecificHeat) != c.Pack.NumZones {
		return fmt.Errorf("specific_heat has %d entries for %d zones", len(c.SpecificHeat), c.Pack.NumZones)
	}
	if len(c.Degradation) > 0 && len(c.Degradation) != c.Pack.NumZones {
		return fmt.Errorf("degradation has %d entries for %d zones", len(c.Degradation), c.Pack.NumZones)
	}
	if _, err := cooling.New(c.Cooling); err != nil {
		return err
	}
	if c.MPC.Enabled && c.MPC.Horizon < 1 {
		return fmt.Errorf("mpc.horizon must be at least 1, got %d", c.MPC.Horizon)
	}
	if c.Run.Electrochem.Enabled {
		switch strings.ToUpper(c.Run.Electrochem.Model) {
		case "SPM", "DFN":
		default:
			return fmt.Errorf("unsupported cell model: %s", c.Run.Electrochem.Model)
		}
	}
	return nil
}

// BuildPack constructs the pack with the configured cooling strategy
// and any per-zone overrides applied.
func (c *Config) BuildPack() (*battery.Pack, error) {
	pack, err := battery.NewPack(c.Pack)
	if err != nil {
		return nil, err
	}

	strategy, err := cooling.New(c.Cooling)
	if err != nil {
		return nil, err
	}
	pack.SetCooling(strategy)

	if len(c.SpecificHeat) > 0 {
		if err := pack.SetSpecificHeat(c.SpecificHeat); err != nil {
			return nil, err
		}
	}
	if len(c.Degradation) > 0 {
		if err := pack.SetDegradationFactors(c.Degradation); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

// BuildMPC constructs the planner with configured overrides; zero
// fields keep the stock values. The planner's surrogate step always
// matches the run step.
func (c *Config) BuildMPC() *control.MPC {
	m := control.NewMPC()
	if c.MPC.Horizon > 0 {
		m.Horizon = c.MPC.Horizon
	}
	if c.MPC.MaxTemperature > 0 {
		m.MaxTemperature = c.MPC.MaxTemperature
	}
	if c.MPC.HTC > 0 {
		m.HTC = c.MPC.HTC
	}
	if c.MPC.Area > 0 {
		m.Area = c.MPC.Area
	}
	m.TimeStep = c.Run.Dt
	return m
}

// SimConfig maps the file-level run settings onto the runner's config.
func (c *Config) SimConfig() sim.RunConfig {
	return sim.RunConfig{
		Current:      c.Run.Current,
		Steps:        c.Run.Steps,
		Dt:           c.Run.Dt,
		ExternalHeat: c.Run.ExternalHeat,
		ControlEvery: c.MPC.ControlEvery,
	}
}
