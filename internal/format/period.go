package format

import (
	"time"
)

// Granularity values accepted by the energy balance endpoint
const (
	GranularityDay  = "day"
	GranularityHour = "hour"
)

// Layouts without an offset are read in the display location, so a bare
// date is always that calendar day.
var periodLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParsePeriod reads a balance point period in loc.
// Values with an explicit offset are converted to loc.
func ParsePeriod(period string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range periodLayouts {
		t, err := time.ParseInLocation(layout, period, loc)
		if err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// PeriodLabel is the x-axis label for a balance point. Daily buckets get a
// short weekday name, anything else gets the hour of day. A period that
// cannot be parsed is shown as-is.
func PeriodLabel(period, granularity string, loc *time.Location) string {
	t, ok := ParsePeriod(period, loc)
	if !ok {
		return period
	}
	if granularity == GranularityDay {
		return Weekday(t)
	}
	return HourOfDay(t)
}
