// Package format turns raw dashboard metrics into display strings.
// Every function here is pure.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every money value
const CurrencySymbol = "$"

var categoryLabels = map[string]string{
	"ev_charging": "EV Charging",
	"hvac":        "HVAC",
	"appliances":  "Appliances",
	"lighting":    "Lighting",
}

// Fixed renders v with exactly places decimals, rounding half away from zero
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Energy renders kWh with one decimal, e.g. "12.3 kWh"
func Energy(kwh float64) string {
	return Fixed(kwh, 1) + " kWh"
}

// Currency renders money with two decimals, e.g. "$3.20"
func Currency(amount float64) string {
	return CurrencySymbol + Fixed(amount, 2)
}

// Mass renders kilograms with one decimal, e.g. "4.2 kg"
func Mass(kg float64) string {
	return Fixed(kg, 1) + " kg"
}

// Power renders kW in its shortest form, e.g. "7.2 kW" or "7 kW"
func Power(kw float64) string {
	return strconv.FormatFloat(kw, 'f', -1, 64) + " kW"
}

// Round rounds to the nearest whole number, halves going up
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Percent is the whole-number percentage used for display and thresholds
func Percent(v float64) int {
	return Round(v)
}

// Minutes converts fractional hours into whole minutes
func Minutes(hours float64) int {
	return Round(hours * 60)
}

// CategoryLabel maps a breakdown key to its display label.
// Unknown keys have their underscores replaced with spaces.
func CategoryLabel(key string) string {
	if label, ok := categoryLabels[key]; ok {
		return label
	}
	return strings.ReplaceAll(key, "_", " ")
}

// Weekday is the short weekday name, e.g. "Wed"
func Weekday(t time.Time) string {
	return t.Format("Mon")
}

// HourOfDay is the hour label used on hourly charts, e.g. "14:00" or "9:00"
func HourOfDay(t time.Time) string {
	return strconv.Itoa(t.Hour()) + ":00"
}

// LongDate is the header date, e.g. "Wednesday, January 3, 2024"
func LongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// EVTimeEstimate is the EV completion line, e.g. "Est. completion: 90 mins"
func EVTimeEstimate(hours float64) string {
	return "Est. completion: " + strconv.Itoa(Minutes(hours)) + " mins"
}

// EVSessionCost is the EV cost line, e.g. "Session cost: $4.05"
func EVSessionCost(amount float64) string {
	return "Session cost: " + Currency(amount)
}

// PercentLabel renders a whole percentage, e.g. "80%"
func PercentLabel(pct int) string {
	return strconv.Itoa(pct) + "%"
}
