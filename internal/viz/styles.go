package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles for thermal status and metric rendering
var (
	// Zone status indicators
	StatusNormal = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusCooling = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	StatusOverheat = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true)

	// Subtle muted text
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Metric value style
	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	// Metric label style
	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	// Key hint style
	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	// Temperature band styles, cold through hot
	HeatCold = lipgloss.NewStyle().Foreground(heatColdColor)
	HeatWarm = lipgloss.NewStyle().Foreground(heatWarmColor)
	HeatHot  = lipgloss.NewStyle().Foreground(heatHotColor)
)

// Gradient endpoints for temperature coloring.
var (
	heatColdColor = lipgloss.Color("#00ccff")
	heatWarmColor = lipgloss.Color("#ffcc00")
	heatHotColor  = lipgloss.Color("#ff4444")
)

// HeatColor maps a normalized temperature in [0, 1] to a terminal color,
// interpolating cold to warm over the lower half and warm to hot over the
// upper half.
func HeatColor(norm float64) lipgloss.Color {
	if norm < 0.5 {
		return lerpColor(heatColdColor, heatWarmColor, 2*norm)
	}
	return lerpColor(heatWarmColor, heatHotColor, 2*norm-1)
}

// TempBar renders a horizontal temperature gauge. frac is the position
// within the display range; the bar shifts from cold blue to hot red as it
// fills.
func TempBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if frac > 0.8 {
		return HeatHot.Render(bar)
	} else if frac > 0.4 {
		return HeatWarm.Render(bar)
	}
	return HeatCold.Render(bar)
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	// Sparkline characters from low to high
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	// Find min/max
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}

	// Sample to fit width
	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		// Color by how hot the sample is
		c := chars[idx]
		if norm > 0.7 {
			result.WriteString(HeatHot.Render(string(c)))
		} else if norm > 0.3 {
			result.WriteString(HeatWarm.Render(string(c)))
		} else {
			result.WriteString(HeatCold.Render(string(c)))
		}
	}

	return result.String()
}

// Decorative separator
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

// lerpColor interpolates between two hex colors; t outside [0, 1] clamps to
// the endpoints.
func lerpColor(from, to lipgloss.Color, t float64) lipgloss.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	sr, sg, sb := parseHex(string(from))
	er, eg, eb := parseHex(string(to))

	r := int(float64(sr) + t*float64(er-sr))
	g := int(float64(sg) + t*float64(eg-sg))
	b := int(float64(sb) + t*float64(eb-sb))

	return lipgloss.Color(hexColor(r, g, b))
}

// Helper functions
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		if c >= '0' && c <= '9' {
			val += int(c - '0')
		} else if c >= 'a' && c <= 'f' {
			val += int(c - 'a' + 10)
		} else if c >= 'A' && c <= 'F' {
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
