// Package charts builds chart datasets from dashboard series and owns the
// live chart widget of every chart slot.
package charts

// Kind is the chart type of a widget
type Kind string

const (
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
)

// Dataset is one series of a chart
type Dataset struct {
	Label              string
	Data               []float64
	Colors             []string // one color for the whole dataset, or one per value
	BorderWidth        int
	BarPercentage      float64
	CategoryPercentage float64
}

// ColorAt returns the color of the i-th value, cycling through Colors
func (d Dataset) ColorAt(i int) string {
	if len(d.Colors) == 0 {
		return ""
	}
	return d.Colors[i%len(d.Colors)]
}

// Config fully describes a chart widget. Rendering the same Config twice
// produces the same widget.
type Config struct {
	Kind           Kind
	Labels         []string
	Datasets       []Dataset
	BeginAtZero    bool
	ShowLegend     bool
	LegendPosition string
	Cutout         float64 // fraction of the radius left empty, doughnut only
}
