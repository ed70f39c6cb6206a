package charts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/pkg/models"
)

func TestBalanceChartDailyLabels(t *testing.T) {
	points := []models.BalancePoint{
		{Period: "2024-01-01", SolarProduction: 10, Consumption: 20},
		{Period: "2024-01-02", SolarProduction: 12, Consumption: 18},
		{Period: "2024-01-03", SolarProduction: 8.5, Consumption: 22},
	}

	cfg := BalanceChart(points, "day", time.UTC)

	assert.Equal(t, KindBar, cfg.Kind)
	assert.Equal(t, []string{"Mon", "Tue", "Wed"}, cfg.Labels)
	require.Len(t, cfg.Datasets, 2)

	usage, solar := cfg.Datasets[0], cfg.Datasets[1]
	assert.Equal(t, "Usage", usage.Label)
	assert.Equal(t, []float64{20, 18, 22}, usage.Data)
	assert.Equal(t, []string{UsageColor}, usage.Colors)
	assert.Equal(t, "Solar", solar.Label)
	assert.Equal(t, []float64{10, 12, 8.5}, solar.Data)
	assert.Equal(t, []string{SolarColor}, solar.Colors)

	assert.Equal(t, 0.7, usage.BarPercentage)
	assert.Equal(t, 0.8, usage.CategoryPercentage)
	assert.True(t, cfg.BeginAtZero)
	assert.False(t, cfg.ShowLegend)
}

func TestBalanceChartHourlyLabels(t *testing.T) {
	points := []models.BalancePoint{
		{Period: "2024-01-03T09:00:00"},
		{Period: "2024-01-03T14:00:00"},
	}

	assert.Equal(t, []string{"9:00", "14:00"}, BalanceLabels(points, "hour", time.UTC))
}

func TestBalanceChartEmpty(t *testing.T) {
	cfg := BalanceChart(nil, "day", time.UTC)
	assert.Empty(t, cfg.Labels)
	assert.Empty(t, cfg.Datasets[0].Data)
}

func TestBreakdownChart(t *testing.T) {
	b := models.Breakdown{
		{Key: "ev_charging", Value: 40},
		{Key: "hvac", Value: 30},
		{Key: "appliances", Value: 20},
		{Key: "lighting", Value: 5},
		{Key: "solar_export", Value: 5},
	}

	cfg := BreakdownChart(b)

	assert.Equal(t, KindDoughnut, cfg.Kind)
	assert.Equal(t, []string{"EV Charging", "HVAC", "Appliances", "Lighting", "solar export"}, cfg.Labels)
	assert.Equal(t, 0.70, cfg.Cutout)
	assert.Equal(t, "bottom", cfg.LegendPosition)

	require.Len(t, cfg.Datasets, 1)
	ds := cfg.Datasets[0]
	assert.Equal(t, []float64{40, 30, 20, 5, 5}, ds.Data)
	assert.Equal(t, "#818cf8", ds.ColorAt(0))
	assert.Equal(t, "#9ca3af", ds.ColorAt(3))
	assert.Equal(t, "#818cf8", ds.ColorAt(4), "palette cycles past four categories")
}

// countingFactory tracks how many widgets are live at once
type countingFactory struct {
	live    int
	maxLive int
	created int
	fail    bool
}

type countingWidget struct {
	f      *countingFactory
	canvas *display.Element
}

func (w *countingWidget) Release() {
	w.f.live--
	w.canvas.Erase()
}

func (f *countingFactory) Create(canvas *display.Element, cfg Config) (Widget, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	f.live++
	f.created++
	if f.live > f.maxLive {
		f.maxLive = f.live
	}
	canvas.Paint(&display.Drawing{Kind: string(cfg.Kind), Labels: cfg.Labels})
	return &countingWidget{f: f, canvas: canvas}, nil
}

func TestRegistryReleasesBeforeCreate(t *testing.T) {
	page := display.NewPage(display.EnergyBalanceChart, display.ConsumptionChart)
	factory := &countingFactory{}
	reg := NewRegistry(page, factory)

	cfg := BreakdownChart(models.Breakdown{{Key: "hvac", Value: 1}})
	for i := 0; i < 3; i++ {
		require.NoError(t, reg.Render(display.ConsumptionChart, cfg))
	}

	assert.Equal(t, 3, factory.created)
	assert.Equal(t, 1, factory.live)
	assert.Equal(t, 1, factory.maxLive, "a slot never has two live widgets")
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, reg.Render(display.EnergyBalanceChart, BalanceChart(nil, "day", time.UTC)))
	assert.Equal(t, 2, factory.live)
	assert.Equal(t, 2, reg.Len())

	reg.ReleaseAll()
	assert.Equal(t, 0, factory.live)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryMissingCanvas(t *testing.T) {
	page := display.NewPage(display.EnergyBalanceChart)
	factory := &countingFactory{}
	reg := NewRegistry(page, factory)

	err := reg.Render(display.ConsumptionChart, BreakdownChart(nil))
	assert.ErrorIs(t, err, ErrNoCanvas)
	assert.Equal(t, 0, factory.created)
}

func TestRegistryCreateFailureLeavesSlotEmpty(t *testing.T) {
	page := display.NewPage(display.ConsumptionChart)
	factory := &countingFactory{}
	reg := NewRegistry(page, factory)

	require.NoError(t, reg.Render(display.ConsumptionChart, BreakdownChart(nil)))
	factory.fail = true

	err := reg.Render(display.ConsumptionChart, BreakdownChart(nil))
	assert.Error(t, err)
	assert.Equal(t, 0, factory.live)

	_, ok := reg.Live(display.ConsumptionChart)
	assert.False(t, ok)
}

func TestSVGFactoryPaintsCanvas(t *testing.T) {
	page := display.NewPage(display.EnergyBalanceChart, display.ConsumptionChart)
	reg := NewRegistry(page, NewSVGFactory())

	points := []models.BalancePoint{
		{Period: "2024-01-02", SolarProduction: 12, Consumption: 18},
		{Period: "2024-01-03", SolarProduction: 8.5, Consumption: 22},
	}
	require.NoError(t, reg.Render(display.EnergyBalanceChart, BalanceChart(points, "day", time.UTC)))
	require.NoError(t, reg.Render(display.ConsumptionChart, BreakdownChart(models.Breakdown{
		{Key: "ev_charging", Value: 60},
		{Key: "hvac", Value: 40},
	})))

	snap := page.Snapshot()
	bar, _ := snap.Get(display.EnergyBalanceChart)
	require.NotNil(t, bar.Drawing)
	assert.Equal(t, "bar", bar.Drawing.Kind)
	assert.Equal(t, []string{"Tue", "Wed"}, bar.Drawing.Labels)
	assert.Contains(t, string(bar.Drawing.SVG), "<svg")
	require.Len(t, bar.Drawing.Series, 2)
	assert.Equal(t, []float64{18, 22}, bar.Drawing.Series[0].Values)

	donut, _ := snap.Get(display.ConsumptionChart)
	require.NotNil(t, donut.Drawing)
	assert.Equal(t, []string{"EV Charging", "HVAC"}, donut.Drawing.Labels)
	assert.Contains(t, string(donut.Drawing.SVG), "<svg")
}

func TestSVGFactoryIdempotent(t *testing.T) {
	page := display.NewPage(display.ConsumptionChart)
	reg := NewRegistry(page, NewSVGFactory())
	cfg := BreakdownChart(models.Breakdown{{Key: "hvac", Value: 70}, {Key: "lighting", Value: 30}})

	require.NoError(t, reg.Render(display.ConsumptionChart, cfg))
	first, _ := page.Snapshot().Get(display.ConsumptionChart)

	require.NoError(t, reg.Render(display.ConsumptionChart, cfg))
	second, _ := page.Snapshot().Get(display.ConsumptionChart)

	assert.Equal(t, first.Drawing.Labels, second.Drawing.Labels)
	assert.Equal(t, first.Drawing.Series, second.Drawing.Series)
	assert.Equal(t, string(first.Drawing.SVG), string(second.Drawing.SVG))
	assert.Equal(t, 1, reg.Len())
}

func TestSVGFactoryEmptyData(t *testing.T) {
	page := display.NewPage(display.ConsumptionChart, display.EnergyBalanceChart)
	reg := NewRegistry(page, NewSVGFactory())

	require.NoError(t, reg.Render(display.ConsumptionChart, BreakdownChart(models.Breakdown{})))
	require.NoError(t, reg.Render(display.EnergyBalanceChart, BalanceChart(nil, "day", time.UTC)))

	snap := page.Snapshot()
	donut, _ := snap.Get(display.ConsumptionChart)
	assert.Contains(t, string(donut.Drawing.SVG), "No data")
	bar, _ := snap.Get(display.EnergyBalanceChart)
	assert.Contains(t, string(bar.Drawing.SVG), "No data")
}

func TestSVGFactoryReleaseErasesCanvas(t *testing.T) {
	page := display.NewPage(display.ConsumptionChart)
	reg := NewRegistry(page, NewSVGFactory())

	require.NoError(t, reg.Render(display.ConsumptionChart, BreakdownChart(models.Breakdown{{Key: "hvac", Value: 1}})))
	reg.ReleaseAll()

	st, _ := page.Snapshot().Get(display.ConsumptionChart)
	assert.Nil(t, st.Drawing)
}

func renderSVG(t *testing.T, cfg Config) string {
	t.Helper()
	page := display.NewPage(display.ConsumptionChart)
	canvas, _ := page.Lookup(display.ConsumptionChart)

	_, err := NewSVGFactory().Create(canvas, cfg)
	require.NoError(t, err)

	st, _ := page.Snapshot().Get(display.ConsumptionChart)
	require.NotNil(t, st.Drawing)
	return string(st.Drawing.SVG)
}

func TestSVGDonutCutoutSizesHole(t *testing.T) {
	b := models.Breakdown{{Key: "hvac", Value: 70}, {Key: "lighting", Value: 30}}

	wide := BreakdownChart(b)
	narrow := BreakdownChart(b)
	narrow.Cutout = 0.5

	// 640x320 canvas with a bottom legend leaves a 102.5px slice radius
	wideSVG, narrowSVG := renderSVG(t, wide), renderSVG(t, narrow)
	assert.Contains(t, wideSVG, `r="71"`)
	assert.Contains(t, narrowSVG, `r="51"`)
	assert.NotEqual(t, wideSVG, narrowSVG)

	none := BreakdownChart(b)
	none.Cutout = 0
	assert.NotContains(t, renderSVG(t, none), "<circle")
}

func TestSVGDonutLegend(t *testing.T) {
	b := models.Breakdown{{Key: "hvac", Value: 70}, {Key: "lighting", Value: 30}}

	withLegend := BreakdownChart(b)
	withoutLegend := BreakdownChart(b)
	withoutLegend.ShowLegend = false
	top := BreakdownChart(b)
	top.LegendPosition = "top"

	legendSVG, bareSVG, topSVG := renderSVG(t, withLegend), renderSVG(t, withoutLegend), renderSVG(t, top)
	assert.Contains(t, legendSVG, "HVAC")
	assert.Contains(t, bareSVG, "HVAC", "slice labels are drawn without a legend")
	assert.NotEqual(t, legendSVG, bareSVG)
	assert.NotEqual(t, legendSVG, topSVG)
}

func TestSVGBarOptions(t *testing.T) {
	points := []models.BalancePoint{
		{Period: "2024-01-01", SolarProduction: 10, Consumption: 20},
		{Period: "2024-01-02", SolarProduction: 12, Consumption: 18},
	}

	base := BalanceChart(points, "day", time.UTC)
	baseSVG := renderSVG(t, base)

	floating := BalanceChart(points, "day", time.UTC)
	floating.BeginAtZero = false
	assert.NotEqual(t, baseSVG, renderSVG(t, floating))

	full := BalanceChart(points, "day", time.UTC)
	for i := range full.Datasets {
		full.Datasets[i].BarPercentage = 1
		full.Datasets[i].CategoryPercentage = 1
	}
	assert.NotEqual(t, baseSVG, renderSVG(t, full))

	legend := BalanceChart(points, "day", time.UTC)
	legend.ShowLegend = true
	legendSVG := renderSVG(t, legend)
	assert.Contains(t, legendSVG, "Usage")
	assert.NotContains(t, baseSVG, "Usage")
}

func TestBarLayout(t *testing.T) {
	ds := Dataset{BarPercentage: 0.7, CategoryPercentage: 0.8}

	width, spacing := barLayout(560, 3, 6, ds)
	assert.Equal(t, 52, width)
	assert.Equal(t, 41, spacing)

	width, spacing = barLayout(560, 3, 6, Dataset{})
	assert.Equal(t, 93, width, "unset percentages fill the category")
	assert.Equal(t, 1, spacing)
}
