package viz

import (
	"errors"
	"strings"
	"testing"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

func TestHeatmap_RejectsBadHistory(t *testing.T) {
	cases := []struct {
		name    string
		history therm.History
	}{
		{"empty", therm.History{}},
		{"ragged", therm.History{{25, 25}, {26, 26, 26}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Heatmap(tc.history)
			var verr *therm.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Heatmap = %v, want ValidationError", err)
			}
		})
	}
}

func TestHeatmap_DensityTracksTemperature(t *testing.T) {
	// Zone 0 stays at the run minimum, zone 1 at the maximum.
	history := therm.History{
		{25, 85},
		{25, 85},
	}

	out, err := Heatmap(history)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	lines := strings.Split(out, "\n")
	if !strings.ContainsRune(lines[0], rune(brailleBase)) {
		t.Errorf("cold zone row missing empty cells: %q", lines[0])
	}
	if !strings.ContainsRune(lines[1], '⣿') {
		t.Errorf("hot zone row missing full cells: %q", lines[1])
	}
}

func TestHeatmap_LabelsAndLegend(t *testing.T) {
	history := therm.History{{25, 45, 65}}

	out, err := Heatmap(history)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	for _, want := range []string{"zone 0", "zone 2", "25.0°C", "65.0°C"} {
		if !strings.Contains(out, want) {
			t.Errorf("heatmap output missing %q:\n%s", want, out)
		}
	}
}

func TestHeatmap_SamplesLongRuns(t *testing.T) {
	history := make(therm.History, 500)
	for i := range history {
		history[i] = []float64{25 + float64(i)*0.1}
	}

	out, err := Heatmap(history)
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	row := strings.Split(out, "\n")[0]
	cells := 0
	for _, r := range row {
		if r >= brailleBase && r <= brailleBase+0xFF {
			cells++
		}
	}
	if cells > heatmapMaxCols {
		t.Errorf("row has %d cells, want at most %d", cells, heatmapMaxCols)
	}
}
