package charts

import (
	"time"

	"github.com/jgoulah/solardash/internal/format"
	"github.com/jgoulah/solardash/pkg/models"
)

// Energy balance styling
const (
	UsageColor = "#60a5fa"
	SolarColor = "#84cc16"

	barPercentage         = 0.7
	barCategoryPercentage = 0.8
)

// BalanceLabels derives the x-axis labels of the balance chart from each
// point's period, in the given display location
func BalanceLabels(points []models.BalancePoint, granularity string, loc *time.Location) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = format.PeriodLabel(p.Period, granularity, loc)
	}
	return labels
}

// BalanceChart builds the Usage/Solar bar chart. Point order is kept.
func BalanceChart(points []models.BalancePoint, granularity string, loc *time.Location) Config {
	solar := make([]float64, len(points))
	consumption := make([]float64, len(points))
	for i, p := range points {
		solar[i] = p.SolarProduction
		consumption[i] = p.Consumption
	}

	return Config{
		Kind:        KindBar,
		Labels:      BalanceLabels(points, granularity, loc),
		BeginAtZero: true,
		ShowLegend:  false,
		Datasets: []Dataset{
			{
				Label:              "Usage",
				Data:               consumption,
				Colors:             []string{UsageColor},
				BarPercentage:      barPercentage,
				CategoryPercentage: barCategoryPercentage,
			},
			{
				Label:              "Solar",
				Data:               solar,
				Colors:             []string{SolarColor},
				BarPercentage:      barPercentage,
				CategoryPercentage: barCategoryPercentage,
			},
		},
	}
}
