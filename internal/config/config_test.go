package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cooling.Type != "passive" {
		t.Errorf("expected passive cooling, got %s", cfg.Cooling.Type)
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Run.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "bench"
	cfg.Run.Current = -12
	cfg.Cooling = cooling.Spec{Type: "liquid", HTC: 80}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Scenario != "bench" {
		t.Errorf("scenario = %q, want bench", loaded.Scenario)
	}
	if loaded.Run.Current != -12 {
		t.Errorf("current = %v, want -12", loaded.Run.Current)
	}
	if loaded.Cooling.Type != "liquid" || loaded.Cooling.HTC != 80 {
		t.Errorf("cooling = %+v, want liquid with htc 80", loaded.Cooling)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("run:\n  current: -20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Run.Current != -20 {
		t.Errorf("current = %v, want -20", cfg.Run.Current)
	}
	if cfg.Run.Steps != DefaultSteps {
		t.Errorf("steps = %d, want default %d", cfg.Run.Steps, DefaultSteps)
	}
	if cfg.Cooling.Type != "passive" {
		t.Errorf("cooling type = %q, want default passive", cfg.Cooling.Type)
	}
	if cfg.Pack.NumZones != 3 {
		t.Errorf("num zones = %d, want default 3", cfg.Pack.NumZones)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Run.Steps = 0 }},
		{"unknown cooling", func(c *Config) { c.Cooling.Type = "cryogenic" }},
		{"specific heat length", func(c *Config) { c.SpecificHeat = []float64{900, 900} }},
		{"degradation length", func(c *Config) { c.Degradation = []float64{1} }},
		{"mpc horizon", func(c *Config) { c.MPC.Enabled = true; c.MPC.Horizon = 0 }},
		{"cell model", func(c *Config) { c.Run.Electrochem.Enabled = true; c.Run.Electrochem.Model = "P4D" }},
		{"negative capacity", func(c *Config) { c.Pack.Capacity = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mpc")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.MPC.Enabled {
		t.Error("mpc preset should enable the planner")
	}
	if cfg.Cooling.Type != "liquid" {
		t.Errorf("cooling = %q, want liquid", cfg.Cooling.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate, got %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_FreshCopy(t *testing.T) {
	a := GetPreset("liquid")
	a.Run.Current = -99

	b := GetPreset("liquid")
	if b.Run.Current == -99 {
		t.Error("presets must not share state between calls")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 5 {
		t.Fatalf("got %d presets, want 5", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
		}
	}
	if cfg := GetPreset(names[0]); cfg == nil {
		t.Error("listed preset should resolve")
	}
}

func TestBuildPack_AppliesCoolingAndOverrides(t *testing.T) {
	cfg := GetPreset("pcm")
	cfg.SpecificHeat = []float64{900, 1000, 1100}

	pack, err := cfg.BuildPack()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if _, ok := pack.Cooling().(*cooling.PhaseChange); !ok {
		t.Errorf("cooling = %T, want *cooling.PhaseChange", pack.Cooling())
	}
}

func TestBuildMPC_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MPC.Horizon = 8
	cfg.MPC.MaxTemperature = 50
	cfg.Run.Dt = 2

	m := cfg.BuildMPC()
	if m.Horizon != 8 {
		t.Errorf("horizon = %d, want 8", m.Horizon)
	}
	if m.MaxTemperature != 50 {
		t.Errorf("max temperature = %v, want 50", m.MaxTemperature)
	}
	if m.TimeStep != 2 {
		t.Errorf("time step = %v, want the run dt", m.TimeStep)
	}
}

func TestSimConfig_Mapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.ExternalHeat = []float64{25}
	cfg.MPC.ControlEvery = 3

	rc := cfg.SimConfig()
	if rc.Current != cfg.Run.Current || rc.Steps != cfg.Run.Steps || rc.Dt != cfg.Run.Dt {
		t.Errorf("run config %+v does not mirror file settings", rc)
	}
	if len(rc.ExternalHeat) != 1 || rc.ExternalHeat[0] != 25 {
		t.Errorf("external heat = %v, want [25]", rc.ExternalHeat)
	}
	if rc.ControlEvery != 3 {
		t.Errorf("control every = %d, want 3", rc.ControlEvery)
	}
}
