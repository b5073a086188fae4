package cooling

import (
	"errors"
	"math"
	"testing"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

func TestNone_AllZeros(t *testing.T) {
	c := NewNone()
	power := c.CoolingPower(therm.State{30, 50, 70})

	if len(power) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(power))
	}
	for i, p := range power {
		if p != 0 {
			t.Errorf("zone %d power = %v, want 0", i, p)
		}
	}
}

func TestLiquid_PowerLaw(t *testing.T) {
	c := NewLiquid(DefaultHTC, DefaultCoolantTemp, DefaultAreaPerZone)
	power := c.CoolingPower(therm.State{35, 25, 15})

	// htc·area·ΔT = 50·0.005·10 = 2.5 W for the 10°C-hot zone.
	if math.Abs(power[0]-2.5) > 1e-12 {
		t.Errorf("hot zone power = %v, want 2.5", power[0])
	}

	// A zone exactly at coolant temperature draws nothing.
	if power[1] != 0 {
		t.Errorf("zone at coolant temperature: power = %v, want 0", power[1])
	}

	// A zone colder than coolant warms up: negative power, not clamped.
	if math.Abs(power[2]+2.5) > 1e-12 {
		t.Errorf("cold zone power = %v, want -2.5", power[2])
	}
}

func TestPhaseChange_SplitsAcrossHotZones(t *testing.T) {
	c := NewPhaseChange(DefaultFusionEnthalpy, DefaultMassPerZone, DefaultPhaseTemp)
	// Budget = 200e3 · 0.02 = 4000 J.
	power := c.CoolingPower(therm.State{40, 30, 50})

	if math.Abs(power[0]-2000) > 1e-9 || math.Abs(power[2]-2000) > 1e-9 {
		t.Errorf("hot zones got %v and %v, want 2000 each", power[0], power[2])
	}
	if power[1] != 0 {
		t.Errorf("zone below phase temperature got %v, want 0", power[1])
	}
	if math.Abs(c.Consumed()-4000) > 1e-9 {
		t.Errorf("Consumed() = %v, want 4000", c.Consumed())
	}
}

func TestPhaseChange_ExhaustedStaysExhausted(t *testing.T) {
	c := NewPhaseChange(DefaultFusionEnthalpy, DefaultMassPerZone, DefaultPhaseTemp)
	hot := therm.State{45, 45}

	first := c.CoolingPower(hot)
	if first[0] <= 0 {
		t.Fatal("first call with hot zones should return positive power")
	}
	if c.Remaining() != 0 {
		t.Fatalf("Remaining() = %v after full depletion, want 0", c.Remaining())
	}

	// Hot zones still present, but the budget is gone forever.
	for call := 0; call < 3; call++ {
		power := c.CoolingPower(hot)
		for i, p := range power {
			if p != 0 {
				t.Errorf("call %d zone %d power = %v, want 0 after exhaustion", call, i, p)
			}
		}
	}
}

func TestPhaseChange_NoHotZonesConsumesNothing(t *testing.T) {
	c := NewPhaseChange(DefaultFusionEnthalpy, DefaultMassPerZone, DefaultPhaseTemp)
	power := c.CoolingPower(therm.State{25, 30, 34.9})

	for i, p := range power {
		if p != 0 {
			t.Errorf("zone %d power = %v, want 0 below phase temperature", i, p)
		}
	}
	if c.Consumed() != 0 {
		t.Errorf("Consumed() = %v, want 0 when nothing melted", c.Consumed())
	}
}

func TestPhaseChange_ConsumedMonotone(t *testing.T) {
	c := NewPhaseChange(100, 0.5, 35) // 50 J budget
	prev := 0.0
	temps := therm.State{40}

	for call := 0; call < 5; call++ {
		c.CoolingPower(temps)
		if c.Consumed() < prev {
			t.Fatalf("Consumed() decreased from %v to %v", prev, c.Consumed())
		}
		prev = c.Consumed()
	}
	if prev > 50+1e-9 {
		t.Errorf("Consumed() = %v exceeds budget 50", prev)
	}
}

func TestRegistry_BuildsEachStrategy(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Type: "passive"}, "*cooling.None"},
		{Spec{Type: "liquid"}, "*cooling.Liquid"},
		{Spec{Type: "pcm"}, "*cooling.PhaseChange"},
	}

	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			c, err := New(tt.spec)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.spec.Type, err)
			}
			switch tt.spec.Type {
			case "passive":
				if _, ok := c.(*None); !ok {
					t.Errorf("got %T, want %s", c, tt.want)
				}
			case "liquid":
				l, ok := c.(*Liquid)
				if !ok {
					t.Fatalf("got %T, want %s", c, tt.want)
				}
				if l.HTC != DefaultHTC || l.CoolantTemperature != DefaultCoolantTemp || l.AreaPerZone != DefaultAreaPerZone {
					t.Errorf("liquid defaults not applied: %+v", l)
				}
			case "pcm":
				p, ok := c.(*PhaseChange)
				if !ok {
					t.Fatalf("got %T, want %s", c, tt.want)
				}
				if p.FusionEnthalpy != DefaultFusionEnthalpy || p.MassPerZone != DefaultMassPerZone {
					t.Errorf("pcm defaults not applied: %+v", p)
				}
			}
		})
	}
}

func TestRegistry_FreshInstancePerCall(t *testing.T) {
	a, err := New(Spec{Type: "pcm"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Spec{Type: "pcm"})
	if err != nil {
		t.Fatal(err)
	}

	// Depleting one instance must not affect the other.
	a.CoolingPower(therm.State{50, 50})
	if b.(*PhaseChange).Consumed() != 0 {
		t.Error("registry returned shared PhaseChange state across calls")
	}
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	_, err := New(Spec{Type: "cryogenic"})
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !errors.Is(err, therm.ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	names := Names()
	want := []string{"liquid", "passive", "pcm"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name     string
		strategy therm.CoolingStrategy
		want     string
	}{
		{"nil", nil, "none"},
		{"passive", NewNone(), "passive"},
		{"liquid", NewLiquid(50, 25, 0.005), "liquid"},
		{"pcm", NewPhaseChange(200e3, 0.02, 35), "pcm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Describe(tc.strategy); got != tc.want {
				t.Errorf("Describe = %q, want %q", got, tc.want)
			}
		})
	}
}
