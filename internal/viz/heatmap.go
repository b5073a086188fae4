package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

const (
	// heatmapMaxCols caps the strip width; longer runs are sampled.
	heatmapMaxCols = 72
	legendWidth    = 16
)

// Heatmap renders a recorded trajectory as a time-by-zone intensity strip.
// Each braille cell is one sampled step of one zone; dot density and color
// both track the temperature relative to the run's min and max.
func Heatmap(history therm.History) (string, error) {
	if err := history.Validate(); err != nil {
		return "", err
	}

	zones := history.Zones()
	steps := history.Steps()

	stride := 1
	if steps > heatmapMaxCols {
		stride = (steps + heatmapMaxCols - 1) / heatmapMaxCols
	}
	cols := (steps + stride - 1) / stride

	lo, hi := historyBounds(history)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	canvas := NewCanvas(cols, zones)
	for col := 0; col < cols; col++ {
		for z, t := range history[col*stride] {
			level := int(math.Round((t - lo) / span * 8))
			canvas.SetLevel(col, z, level)
		}
	}

	var b strings.Builder
	for z := 0; z < zones; z++ {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("zone %-2d ", z)))
		for col := 0; col < cols; col++ {
			norm := (history[col*stride][z] - lo) / span
			cell := lipgloss.NewStyle().Foreground(HeatColor(norm))
			b.WriteString(cell.Render(string(canvas.Grid[z][col])))
		}
		b.WriteByte('\n')
	}

	b.WriteString(Subtle.Render(fmt.Sprintf("%.1f°C ", lo)))
	for i := 0; i < legendWidth; i++ {
		norm := float64(i) / float64(legendWidth-1)
		b.WriteString(lipgloss.NewStyle().Foreground(HeatColor(norm)).Render("■"))
	}
	b.WriteString(Subtle.Render(fmt.Sprintf(" %.1f°C", hi)))
	b.WriteByte('\n')
	return b.String(), nil
}

func historyBounds(h therm.History) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range h {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
