// Package terminal paints a dashboard page snapshot as text with lipgloss.
package terminal

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/format"
)

const (
	barWidth   = 28
	labelWidth = 12
	cardWidth  = 18
)

var (
	colorMuted  = lipgloss.Color("#6b7280")
	colorTrack  = lipgloss.Color("#374151")
	colorAccent = lipgloss.Color("#a78bfa")
	colorGreen  = lipgloss.Color("#22c55e")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTrack).
			Padding(0, 1).
			Width(cardWidth)
)

var cards = []struct {
	id, title string
}{
	{display.SolarProd, "Solar"},
	{display.TotalCons, "Consumption"},
	{display.CostSave, "Savings"},
	{display.CO2Offset, "CO2 offset"},
}

// View renders page snapshots
type View struct {
	Now func() time.Time
}

// New creates a view using the wall clock
func New() *View {
	return &View{Now: time.Now}
}

// Render draws snap. updated is when the page last changed; zero hides the
// footer.
func (v *View) Render(snap display.Snapshot, updated time.Time) string {
	var sections []string

	header := titleStyle.Render("Solar Dashboard")
	if date := snap.Text(display.CurrentDate); date != "" {
		header += "  " + mutedStyle.Render(date)
	}
	if st, ok := snap.Get(display.PeriodSelect); ok {
		header += "  " + mutedStyle.Render("period: "+st.Text)
	}
	sections = append(sections, header)

	if row := renderCards(snap); row != "" {
		sections = append(sections, row)
	}
	if st, ok := snap.Get(display.EnergyBalanceChart); ok && st.Drawing != nil {
		sections = append(sections, sectionStyle.Render("Energy balance"), renderBars(st.Drawing))
	}
	if st, ok := snap.Get(display.ConsumptionChart); ok && st.Drawing != nil {
		sections = append(sections, sectionStyle.Render("Consumption breakdown"), renderShares(st.Drawing))
	}
	if ev := renderEV(snap); ev != "" {
		sections = append(sections, sectionStyle.Render("EV charging"), ev)
	}
	if st, ok := snap.Get(display.InsightsList); ok {
		sections = append(sections, sectionStyle.Render("Insights"), renderInsights(st.Items))
	}

	if !updated.IsZero() {
		now := time.Now
		if v.Now != nil {
			now = v.Now
		}
		sections = append(sections, mutedStyle.Render("updated "+humanize.RelTime(updated, now(), "ago", "from now")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func renderCards(snap display.Snapshot) string {
	var boxes []string
	for _, c := range cards {
		st, ok := snap.Get(c.id)
		if !ok {
			continue
		}
		value := st.Text
		if value == "" {
			value = "--"
		}
		boxes = append(boxes, cardStyle.Render(mutedStyle.Render(c.title)+"\n"+lipgloss.NewStyle().Bold(true).Render(value)))
	}
	if len(boxes) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// renderBars draws each label as one bar per series, scaled to the largest value
func renderBars(d *display.Drawing) string {
	if len(d.Labels) == 0 {
		return mutedStyle.Render("  No data")
	}

	maxVal := 0.0
	for _, s := range d.Series {
		for _, v := range s.Values {
			maxVal = math.Max(maxVal, v)
		}
	}

	var sb strings.Builder
	for i, label := range d.Labels {
		for j, s := range d.Series {
			if i >= len(s.Values) {
				continue
			}
			name := ""
			if j == 0 {
				name = label
			}
			sb.WriteString(barLine(name, s.Name, s.Values[i], maxVal, seriesColor(s, i)))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderShares draws each slice of a donut as a bar of its share of the total
func renderShares(d *display.Drawing) string {
	if len(d.Series) == 0 || len(d.Series[0].Values) == 0 {
		return mutedStyle.Render("  No data")
	}

	s := d.Series[0]
	total := 0.0
	for _, v := range s.Values {
		total += v
	}

	var sb strings.Builder
	for i, v := range s.Values {
		label := ""
		if i < len(d.Labels) {
			label = d.Labels[i]
		}
		pct := 0.0
		if total > 0 {
			pct = v / total * 100
		}
		sb.WriteString(shareLine(label, pct, seriesColor(s, i)))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func seriesColor(s display.Series, i int) lipgloss.Color {
	if len(s.Colors) == 0 {
		return colorAccent
	}
	return lipgloss.Color(s.Colors[i%len(s.Colors)])
}

func barLine(label, series string, value, maxVal float64, color lipgloss.Color) string {
	filled := 0
	if maxVal > 0 && value > 0 {
		filled = int(value / maxVal * barWidth)
		if filled < 1 {
			filled = 1
		}
	}

	return "  " + lipgloss.NewStyle().Width(labelWidth).Render(label) +
		lipgloss.NewStyle().Width(6).Foreground(color).Render(series) +
		gauge(filled, color) + " " +
		humanize.FormatFloat("#,###.#", value)
}

func shareLine(label string, pct float64, color lipgloss.Color) string {
	filled := int(math.Round(pct / 100 * barWidth))
	return "  " + lipgloss.NewStyle().Width(labelWidth).Render(label) +
		gauge(filled, color) + " " +
		format.Fixed(pct, 1) + "%"
}

func gauge(filled int, color lipgloss.Color) string {
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorTrack).Render(strings.Repeat("░", barWidth-filled))
}

func renderEV(snap display.Snapshot) string {
	var lines []string

	if st, ok := snap.Get(display.BatteryLevel); ok && st.WidthPercent != nil {
		filled := *st.WidthPercent * barWidth / 100
		line := "  " + gauge(filled, colorGreen)
		if text := snap.Text(display.BatteryText); text != "" {
			line += " " + text
		}
		lines = append(lines, line)
	} else if text := snap.Text(display.BatteryText); text != "" {
		lines = append(lines, "  "+text)
	}

	for _, id := range []string{display.EVPower, display.EVTimeEstimate, display.EVCost} {
		if text := snap.Text(id); text != "" {
			lines = append(lines, "  "+text)
		}
	}

	if st, ok := snap.Get(display.EVStatusBadge); ok && st.Text != "" {
		badge := lipgloss.NewStyle().Padding(0, 1)
		if st.Background != "" {
			badge = badge.Background(lipgloss.Color(st.Background))
		}
		if st.Color != "" {
			badge = badge.Foreground(lipgloss.Color(st.Color))
		}
		lines = append(lines, "  "+badge.Render(st.Text))
	}

	return strings.Join(lines, "\n")
}

func renderInsights(items []display.Item) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("  " + insightMarker(it.Class) + " ")
		if it.Title != "" {
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render(it.Title) + ": ")
		}
		sb.WriteString(it.Message + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func insightMarker(class string) string {
	switch {
	case strings.HasSuffix(class, " positive"):
		return lipgloss.NewStyle().Foreground(colorGreen).Render("▼")
	case strings.HasSuffix(class, " warning"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Render("!")
	default:
		return mutedStyle.Render("•")
	}
}
