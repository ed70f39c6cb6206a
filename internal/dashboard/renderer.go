// Package dashboard applies fetched payloads to the dashboard page.
package dashboard

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/solardash/internal/charts"
	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/format"
	"github.com/jgoulah/solardash/pkg/models"
)

// EV badge text and colors. Both states share one palette.
const (
	BadgeComplete   = "Complete"
	BadgeActive     = "Active"
	BadgeBackground = "#dcfce7"
	BadgeColor      = "#166534"
)

// Renderer paints payloads onto a page. Its methods must all be called from
// the same goroutine.
type Renderer struct {
	updater  *display.Updater
	registry *charts.Registry
	loc      *time.Location
	logger   *zap.Logger
}

// NewRenderer creates a renderer for page using factory for chart widgets
func NewRenderer(page *display.Page, factory charts.Factory, loc *time.Location, logger *zap.Logger) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		updater:  display.NewUpdater(page),
		registry: charts.NewRegistry(page, factory),
		loc:      loc,
		logger:   logger.With(zap.String("component", "renderer")),
	}
}

// Page returns the page being painted
func (r *Renderer) Page() *display.Page {
	return r.updater.Page()
}

// Registry returns the chart registry
func (r *Renderer) Registry() *charts.Registry {
	return r.registry
}

// Location returns the display location for dates
func (r *Renderer) Location() *time.Location {
	return r.loc
}

// Date paints the long form of now into the date label
func (r *Renderer) Date(now time.Time) {
	r.updater.SetText(display.CurrentDate, format.LongDate(now.In(r.loc)))
}

// Metrics paints the four summary cards
func (r *Renderer) Metrics(m models.MetricsSnapshot) {
	r.updater.SetText(display.SolarProd, format.Energy(m.SolarProduction))
	r.updater.SetText(display.TotalCons, format.Energy(m.TotalConsumption))
	r.updater.SetText(display.CostSave, format.Currency(m.CostSavings))
	r.updater.SetText(display.CO2Offset, format.Mass(m.CO2Offset))
}

// Balance redraws the energy balance chart
func (r *Renderer) Balance(points []models.BalancePoint, granularity string) {
	r.renderChart(display.EnergyBalanceChart, charts.BalanceChart(points, granularity, r.loc))
}

// Breakdown redraws the consumption donut
func (r *Renderer) Breakdown(b models.Breakdown) {
	r.renderChart(display.ConsumptionChart, charts.BreakdownChart(b))
}

func (r *Renderer) renderChart(slot string, cfg charts.Config) {
	err := r.registry.Render(slot, cfg)
	switch {
	case err == nil:
	case errors.Is(err, charts.ErrNoCanvas):
		// layout without this chart
	default:
		r.logger.Warn("chart render failed", zap.String("slot", slot), zap.Error(err))
	}
}

// EV paints the charging session card
func (r *Renderer) EV(ev models.EVStatus) {
	pct := format.Percent(ev.Percentage)

	r.updater.SetWidthPercent(display.BatteryLevel, pct)
	r.updater.SetText(display.BatteryText, format.PercentLabel(pct))
	r.updater.SetText(display.EVPower, format.Power(ev.ChargingPowerKW))
	r.updater.SetText(display.EVTimeEstimate, format.EVTimeEstimate(ev.TimeToCompleteHours))
	r.updater.SetText(display.EVCost, format.EVSessionCost(ev.CostEstimate))

	if _, ok := r.updater.Page().Lookup(display.EVStatusBadge); ok {
		r.updater.SetText(display.EVStatusBadge, BadgeText(pct))
		r.updater.SetStyle(display.EVStatusBadge, BadgeBackground, BadgeColor)
	}
}

// BadgeText returns the EV status for a rounded charge percentage
func BadgeText(pct int) string {
	if pct >= 100 {
		return BadgeComplete
	}
	return BadgeActive
}

// Insights rebuilds the insights list
func (r *Renderer) Insights(list []models.Insight) {
	r.updater.ReplaceItems(display.InsightsList, InsightItems(list))
}

// Release frees every chart widget
func (r *Renderer) Release() {
	r.registry.ReleaseAll()
}
