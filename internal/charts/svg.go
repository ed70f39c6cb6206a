package charts

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jgoulah/solardash/internal/display"
)

// Default SVG canvas size
const (
	DefaultWidth  = 640
	DefaultHeight = 320
)

const axisColor = "#9ca3af"

// SVGFactory renders widgets as SVG with go-chart
type SVGFactory struct {
	Width  int
	Height int
}

// NewSVGFactory creates a factory using the default canvas size
func NewSVGFactory() *SVGFactory {
	return &SVGFactory{Width: DefaultWidth, Height: DefaultHeight}
}

func (f *SVGFactory) size() (int, int) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

type svgWidget struct {
	canvas *display.Element
}

func (w *svgWidget) Release() {
	w.canvas.Erase()
}

// Create renders cfg and paints it onto canvas. Data go-chart cannot draw,
// such as an all-zero donut, gets an empty-state image instead.
func (f *SVGFactory) Create(canvas *display.Element, cfg Config) (Widget, error) {
	var (
		svg []byte
		err error
	)
	switch cfg.Kind {
	case KindBar:
		svg, err = f.renderBar(cfg)
	case KindDoughnut:
		svg, err = f.renderDonut(cfg)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", cfg.Kind)
	}
	if err != nil {
		svg = f.emptySVG("No data")
	}

	canvas.Paint(&display.Drawing{
		Kind:   string(cfg.Kind),
		Labels: append([]string(nil), cfg.Labels...),
		Series: drawingSeries(cfg),
		SVG:    svg,
	})
	return &svgWidget{canvas: canvas}, nil
}

func drawingSeries(cfg Config) []display.Series {
	series := make([]display.Series, len(cfg.Datasets))
	for i, ds := range cfg.Datasets {
		series[i] = display.Series{
			Name:   ds.Label,
			Colors: append([]string(nil), ds.Colors...),
			Values: append([]float64(nil), ds.Data...),
		}
	}
	return series
}

// Pixels the bar chart gives to its y axis and padding
const barChrome = 80

// renderBar draws the datasets as bars, one group per label. Bar width is
// the category width scaled by CategoryPercentage, split across datasets and
// scaled again by BarPercentage.
func (f *SVGFactory) renderBar(cfg Config) ([]byte, error) {
	var bars []chart.Value
	maxValue, minValue := math.Inf(-1), math.Inf(1)
	for i, label := range cfg.Labels {
		for j, ds := range cfg.Datasets {
			if i >= len(ds.Data) {
				continue
			}
			v := ds.Data[i]
			maxValue = math.Max(maxValue, v)
			minValue = math.Min(minValue, v)

			barLabel := ""
			if j == 0 {
				barLabel = label
			}
			color := hexColor(ds.ColorAt(0))
			bars = append(bars, chart.Value{
				Label: barLabel,
				Value: v,
				Style: chart.Style{
					FillColor:   color,
					StrokeColor: color,
					StrokeWidth: float64(ds.BorderWidth),
				},
			})
		}
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars to draw")
	}
	if cfg.BeginAtZero {
		minValue = math.Min(minValue, 0)
		maxValue = math.Max(maxValue, 0)
	}
	if maxValue == minValue {
		maxValue = minValue + 1
	}

	width, height := f.size()
	barWidth, barSpacing := barLayout(width-barChrome, len(cfg.Labels), len(bars), cfg.Datasets[0])

	bc := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.Style{
			FontColor: hexColor(axisColor),
			FontSize:  11,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: hexColor(axisColor),
				FontSize:  11,
			},
			Range: &chart.ContinuousRange{Min: minValue, Max: maxValue},
		},
		Bars: bars,
	}
	if cfg.ShowLegend {
		band := legendBand(cfg.LegendPosition, width, height)
		if cfg.LegendPosition == "top" {
			bc.Background.Padding.Top += legendHeight
		} else {
			bc.Background.Padding.Bottom += legendHeight
		}
		bc.Elements = append(bc.Elements, legendElement(datasetLegend(cfg), band))
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// barLayout returns the bar width and uniform spacing for nBars bars spread
// over nLabels categories of the available width
func barLayout(available, nLabels, nBars int, ds Dataset) (int, int) {
	if nLabels <= 0 {
		nLabels = 1
	}
	perGroup := float64(nBars) / float64(nLabels)
	catPct, barPct := ds.CategoryPercentage, ds.BarPercentage
	if catPct <= 0 || catPct > 1 {
		catPct = 1
	}
	if barPct <= 0 || barPct > 1 {
		barPct = 1
	}

	category := float64(available) / float64(nLabels)
	barWidth := int(category * catPct / perGroup * barPct)
	if barWidth < 2 {
		barWidth = 2
	}
	spacing := (available - nBars*barWidth) / nBars
	if spacing < 1 {
		spacing = 1
	}
	return barWidth, spacing
}

// renderDonut draws one ring. go-chart paints a fixed small hole; a second
// hole sized by Cutout is drawn over it.
func (f *SVGFactory) renderDonut(cfg Config) ([]byte, error) {
	if len(cfg.Datasets) == 0 {
		return nil, fmt.Errorf("no dataset to draw")
	}
	ds := cfg.Datasets[0]

	var (
		values []chart.Value
		legend []legendEntry
	)
	total := 0.0
	for i, v := range ds.Data {
		if v <= 0 {
			continue
		}
		label := ""
		if i < len(cfg.Labels) {
			label = cfg.Labels[i]
		}
		legend = append(legend, legendEntry{label: label, color: ds.ColorAt(i)})
		if cfg.ShowLegend {
			label = ""
		}
		color := hexColor(ds.ColorAt(i))
		values = append(values, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: float64(ds.BorderWidth),
			},
		})
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("donut values sum to zero")
	}

	width, height := f.size()
	dc := chart.DonutChart{
		Width:  height,
		Height: height,
		Values: values,
	}
	if cfg.Cutout > 0 {
		dc.Elements = append(dc.Elements, holeElement(cfg.Cutout, len(values) == 1))
	}
	if cfg.ShowLegend {
		dc.Width = width
		band := legendBand(cfg.LegendPosition, width, height)
		if cfg.LegendPosition == "top" {
			dc.Background.Padding = chart.Box{Top: legendHeight + 5, Left: 5, Right: 5, Bottom: 5}
		} else {
			dc.Background.Padding = chart.Box{Top: 5, Left: 5, Right: 5, Bottom: legendHeight + 5}
		}
		dc.Elements = append(dc.Elements, legendElement(legend, band))
	}

	var buf bytes.Buffer
	if err := dc.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("rendering donut chart: %w", err)
	}
	return buf.Bytes(), nil
}

// holeElement paints the donut hole at cutout times the slice radius.
// The radius math follows go-chart's slice drawing.
func holeElement(cutout float64, single bool) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		cx, cy := canvasBox.Center()
		radius := float64(chart.MinInt(canvasBox.Width(), canvasBox.Height())>>1) / 1.1
		if !single {
			radius /= 1.25
		}
		chart.Style{
			FillColor:   chart.ColorWhite,
			StrokeColor: chart.ColorWhite,
			StrokeWidth: 1,
		}.WriteToRenderer(r)
		r.Circle(math.Min(cutout, 1)*radius, cx, cy)
	}
}

func (f *SVGFactory) emptySVG(message string) []byte {
	width, height := f.size()
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
			`<text x="50%%" y="50%%" text-anchor="middle" fill="#9ca3af" font-size="14">%s</text></svg>`,
		width, height, html.EscapeString(message)))
}

func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return drawing.ColorTransparent
	}
	return drawing.ColorFromHex(hex)
}
