package charts

import (
	chart "github.com/wcharczuk/go-chart/v2"
)

// Legend band geometry in pixels
const (
	legendHeight   = 28
	legendSwatch   = 10
	legendGap      = 14
	legendFontSize = 10
)

type legendEntry struct {
	label string
	color string
}

func datasetLegend(cfg Config) []legendEntry {
	entries := make([]legendEntry, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		entries = append(entries, legendEntry{label: ds.Label, color: ds.ColorAt(0)})
	}
	return entries
}

// legendBand returns the strip the legend is drawn in. Only "top" moves it
// off the bottom edge.
func legendBand(position string, width, height int) chart.Box {
	if position == "top" {
		return chart.Box{Top: 0, Left: 0, Right: width, Bottom: legendHeight}
	}
	return chart.Box{Top: height - legendHeight, Left: 0, Right: width, Bottom: height}
}

// legendElement draws one swatch and label per entry, centered in band
func legendElement(entries []legendEntry, band chart.Box) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		text := chart.Style{
			FontColor: hexColor(axisColor),
			FontSize:  legendFontSize,
		}.InheritFrom(defaults)
		text.WriteTextOptionsToRenderer(r)

		widths := make([]int, len(entries))
		total := 0
		for i, e := range entries {
			widths[i] = legendSwatch + 4 + r.MeasureText(e.label).Width()
			total += widths[i]
		}
		total += legendGap * (len(entries) - 1)

		cx, cy := band.Center()
		x := cx - total/2
		top := cy - legendSwatch/2
		for i, e := range entries {
			color := hexColor(e.color)
			chart.Draw.Box(r, chart.Box{
				Top:    top,
				Left:   x,
				Right:  x + legendSwatch,
				Bottom: top + legendSwatch,
			}, chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1})

			text.WriteTextOptionsToRenderer(r)
			r.Text(e.label, x+legendSwatch+4, top+legendSwatch)
			x += widths[i] + legendGap
		}
	}
}
