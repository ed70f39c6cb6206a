package charts

import (
	"github.com/jgoulah/solardash/internal/format"
	"github.com/jgoulah/solardash/pkg/models"
)

// BreakdownPalette colors categories by position: EV, HVAC, appliances, lighting
var BreakdownPalette = []string{
	"#818cf8",
	"#f472b6",
	"#fbbf24",
	"#9ca3af",
}

// DonutCutout is the share of the radius left empty
const DonutCutout = 0.70

// BreakdownChart builds the consumption donut in breakdown order
func BreakdownChart(b models.Breakdown) Config {
	labels := make([]string, len(b))
	for i, e := range b {
		labels[i] = format.CategoryLabel(e.Key)
	}

	return Config{
		Kind:           KindDoughnut,
		Labels:         labels,
		ShowLegend:     true,
		LegendPosition: "bottom",
		Cutout:         DonutCutout,
		Datasets: []Dataset{
			{
				Data:        b.Values(),
				Colors:      append([]string(nil), BreakdownPalette...),
				BorderWidth: 0,
			},
		},
	}
}
