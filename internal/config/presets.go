package config

import (
	"sort"

	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
)

// presets maps scenario names to builders so each caller gets an
// independent config to mutate.
var presets = map[string]func() *Config{
	"passive": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = "passive"
		return cfg
	},
	"liquid": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = "liquid"
		cfg.Cooling = cooling.Spec{Type: "liquid"}
		cfg.Run.Current = -8
		cfg.Run.Steps = 30
		return cfg
	},
	"pcm": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = "pcm"
		cfg.Cooling = cooling.Spec{Type: "pcm"}
		cfg.Run.Current = -8
		cfg.Run.Steps = 30
		return cfg
	},
	"mpc": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = "mpc"
		cfg.Cooling = cooling.Spec{Type: "liquid"}
		cfg.MPC.Enabled = true
		cfg.Run.Current = -10
		cfg.Run.Steps = 60
		return cfg
	},
	"stress": func() *Config {
		cfg := DefaultConfig()
		cfg.Scenario = "stress"
		cfg.Cooling = cooling.Spec{Type: "liquid"}
		cfg.Run.Current = -15
		cfg.Run.Steps = 120
		cfg.Run.ExternalHeat = []float64{40}
		return cfg
	},
}

// GetPreset returns a fresh config for the named scenario, or nil when
// the name is unknown.
func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the available scenario names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
