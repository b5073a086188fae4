package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Default chart geometry.
const (
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 80
)

// zoneColors cycle across series in multi-zone charts.
var zoneColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Red,
	asciigraph.Magenta,
	asciigraph.Cyan,
}

// PlotOptions controls chart geometry. Zero values pick the defaults.
type PlotOptions struct {
	Height  int
	Width   int
	Caption string
}

// Plot renders a recorded temperature trajectory as a terminal line chart
// with one colored series per zone. The history must be a non-empty
// rectangular table.
func Plot(history therm.History, opts PlotOptions) (string, error) {
	if err := history.Validate(); err != nil {
		return "", err
	}
	if opts.Height <= 0 {
		opts.Height = DefaultPlotHeight
	}
	if opts.Width <= 0 {
		opts.Width = DefaultPlotWidth
	}
	if opts.Caption == "" {
		opts.Caption = "zone temperature (°C)"
	}

	zones := history.Zones()
	series := make([][]float64, zones)
	colors := make([]asciigraph.AnsiColor, zones)
	for z := 0; z < zones; z++ {
		series[z] = history.ZoneSeries(z)
		colors[z] = zoneColors[z%len(zoneColors)]
	}

	chart := asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(opts.Caption),
		asciigraph.SeriesColors(colors...),
	)
	return chart, nil
}
