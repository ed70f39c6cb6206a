package models

import "time"

// MetricsRecord is a rendered MetricsSnapshot kept in the history database
type MetricsRecord struct {
	ID         int
	Period     string
	Metrics    MetricsSnapshot
	RecordedAt time.Time
}

// EVRecord is a rendered EVStatus kept in the history database
type EVRecord struct {
	ID         int
	EV         EVStatus
	RecordedAt time.Time
}
