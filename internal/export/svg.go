// Package export renders recorded temperature trajectories to SVG.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Default document geometry.
const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// zoneStrokes cycle across zone polylines.
var zoneStrokes = []string{"#00ccff", "#00ff88", "#ffcc00", "#ff8800", "#ff4444", "#ff00ff"}

// HistoryToSVG renders a recorded trajectory as an SVG line chart and writes
// it to path.
func HistoryToSVG(history therm.History, path string, width, height int) error {
	svg, err := RenderSVG(history, width, height)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// RenderSVG produces an SVG document with one colored polyline per zone, a
// temperature axis, and a zone legend. Zero geometry picks the defaults.
func RenderSVG(history therm.History, width, height int) (string, error) {
	if err := history.Validate(); err != nil {
		return "", err
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	steps := history.Steps()
	zones := history.Zones()

	// Find bounds
	minT, maxT := history[0][0], history[0][0]
	for _, row := range history {
		for _, v := range row {
			if v < minT {
				minT = v
			}
			if v > maxT {
				maxT = v
			}
		}
	}

	// Add padding
	rangeT := maxT - minT
	if rangeT == 0 {
		rangeT = 1
	}
	minT -= rangeT * 0.1
	maxT += rangeT * 0.1
	rangeT = maxT - minT

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Temperature axis labels, max at the top and min at the bottom.
	sb.WriteString(fmt.Sprintf(`<text x="4" y="14" fill="#888899" font-family="monospace" font-size="12">%.1f°C</text>
`, maxT))
	sb.WriteString(fmt.Sprintf(`<text x="4" y="%d" fill="#888899" font-family="monospace" font-size="12">%.1f°C</text>
`, height-6, minT))

	denom := float64(steps - 1)
	if denom == 0 {
		denom = 1
	}

	for z := 0; z < zones; z++ {
		stroke := zoneStrokes[z%len(zoneStrokes)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for i, row := range history {
			x := float64(i) / denom * float64(width)
			y := float64(height) - (row[z]-minT)/rangeT*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	// Legend, one swatch per zone.
	for z := 0; z < zones; z++ {
		y := 14 + z*16
		stroke := zoneStrokes[z%len(zoneStrokes)]
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="10" height="10" fill="%s"/>
`, width-86, y, stroke))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#e0e0e0" font-family="monospace" font-size="12">zone %d</text>
`, width-72, y+9, z))
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}
