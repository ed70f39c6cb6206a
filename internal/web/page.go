package web

import (
	"slices"
	"strconv"

	"github.com/jgoulah/solardash/internal/display"
)

type cardVM struct {
	ID    string
	Title string
	Value string
}

type chartVM struct {
	Slot  string
	Title string
	URL   string
	Drawn bool
}

type evVM struct {
	HasLevel   bool
	Level      int
	Battery    string
	Power      string
	Time       string
	Cost       string
	HasBadge   bool
	Badge      string
	Background string
	Color      string
}

type pageVM struct {
	Date        string
	HasFilter   bool
	Period      string
	Periods     []string
	Cards       []cardVM
	Charts      []chartVM
	EV          *evVM
	HasInsights bool
	Insights    []display.Item
	Refresh     int
}

var cardTitles = []struct{ id, title string }{
	{display.SolarProd, "Solar Production"},
	{display.TotalCons, "Total Consumption"},
	{display.CostSave, "Cost Savings"},
	{display.CO2Offset, "CO2 Offset"},
}

var chartTitles = []struct{ id, title string }{
	{display.EnergyBalanceChart, "Energy Balance"},
	{display.ConsumptionChart, "Consumption Breakdown"},
}

var evTargets = []string{
	display.BatteryLevel, display.BatteryText, display.EVPower,
	display.EVTimeEstimate, display.EVCost, display.EVStatusBadge,
}

// chartURL locates the SVG of a chart slot
type chartURL func(slot string, version uint64) string

func serverChartURL(slot string, version uint64) string {
	return "/charts/" + slot + ".svg?v=" + strconv.FormatUint(version, 10)
}

// StaticChartURL is where WriteStatic expects chart files, relative to the page
func StaticChartURL(slot string, _ uint64) string {
	return "charts/" + slot + ".svg"
}

func newPageVM(snap display.Snapshot, refresh int, url chartURL) pageVM {
	vm := pageVM{
		Date:    snap.Text(display.CurrentDate),
		Refresh: refresh,
	}

	if st, ok := snap.Get(display.PeriodSelect); ok {
		vm.HasFilter = true
		vm.Period = st.Text
		vm.Periods = Periods
		if st.Text != "" && !slices.Contains(Periods, st.Text) {
			vm.Periods = append(slices.Clone(Periods), st.Text)
		}
	}

	for _, c := range cardTitles {
		if st, ok := snap.Get(c.id); ok {
			vm.Cards = append(vm.Cards, cardVM{ID: c.id, Title: c.title, Value: st.Text})
		}
	}

	for _, c := range chartTitles {
		if st, ok := snap.Get(c.id); ok {
			vm.Charts = append(vm.Charts, chartVM{
				Slot:  c.id,
				Title: c.title,
				URL:   url(c.id, snap.Version),
				Drawn: st.Drawing != nil,
			})
		}
	}

	if slices.ContainsFunc(evTargets, func(id string) bool { _, ok := snap.Get(id); return ok }) {
		ev := &evVM{
			Battery: snap.Text(display.BatteryText),
			Power:   snap.Text(display.EVPower),
			Time:    snap.Text(display.EVTimeEstimate),
			Cost:    snap.Text(display.EVCost),
		}
		if st, ok := snap.Get(display.BatteryLevel); ok && st.WidthPercent != nil {
			ev.HasLevel = true
			ev.Level = min(max(*st.WidthPercent, 0), 100)
		}
		if st, ok := snap.Get(display.EVStatusBadge); ok {
			ev.HasBadge = true
			ev.Badge = st.Text
			ev.Background = st.Background
			ev.Color = st.Color
		}
		vm.EV = ev
	}

	if st, ok := snap.Get(display.InsightsList); ok {
		vm.HasInsights = true
		vm.Insights = st.Items
	}

	return vm
}
