package viz

import (
	"errors"
	"strings"
	"testing"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

func TestPlot_RendersZoneSeries(t *testing.T) {
	history := therm.History{
		{25, 26, 27},
		{30, 31, 32},
		{35, 36, 37},
	}

	out, err := Plot(history, PlotOptions{Height: 5, Width: 20, Caption: "pack run"})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if !strings.Contains(out, "pack run") {
		t.Errorf("chart missing caption:\n%s", out)
	}
	if len(strings.Split(out, "\n")) < 5 {
		t.Errorf("chart shorter than requested height:\n%s", out)
	}
}

func TestPlot_DefaultsFillZeroOptions(t *testing.T) {
	history := therm.History{{25}, {26}, {27}}

	out, err := Plot(history, PlotOptions{})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if !strings.Contains(out, "zone temperature") {
		t.Errorf("chart missing default caption:\n%s", out)
	}
}

func TestPlot_EmptyHistory(t *testing.T) {
	_, err := Plot(therm.History{}, PlotOptions{})

	var verr *therm.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Plot on empty history = %v, want ValidationError", err)
	}
}

func TestPlot_RaggedHistory(t *testing.T) {
	history := therm.History{{25, 25}, {26}}

	_, err := Plot(history, PlotOptions{})

	var verr *therm.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Plot on ragged history = %v, want ValidationError", err)
	}
}
