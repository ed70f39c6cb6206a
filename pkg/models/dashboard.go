package models

import (
	"bytes"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// MetricsSnapshot holds the summary card values for one reporting period
type MetricsSnapshot struct {
	SolarProduction  float64 `json:"solar_production"`  // kWh
	TotalConsumption float64 `json:"total_consumption"` // kWh
	CostSavings      float64 `json:"cost_savings"`      // currency
	CO2Offset        float64 `json:"co2_offset"`        // kg
	GridImport       float64 `json:"grid_import,omitempty"`
	GridExport       float64 `json:"grid_export,omitempty"`
}

// BalancePoint is one bucket of the energy balance series
type BalancePoint struct {
	Period          string  `json:"period"` // ISO date or date-time, depending on granularity
	SolarProduction float64 `json:"solar_production"`
	Consumption     float64 `json:"consumption"`
}

// BreakdownEntry is one category share of the consumption breakdown
type BreakdownEntry struct {
	Key   string
	Value float64
}

// Breakdown is the consumption breakdown in the order the backend sent it
type Breakdown []BreakdownEntry

// Keys returns the category keys in order
func (b Breakdown) Keys() []string {
	keys := make([]string, len(b))
	for i, e := range b {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the category shares in order
func (b Breakdown) Values() []float64 {
	values := make([]float64, len(b))
	for i, e := range b {
		values[i] = e.Value
	}
	return values
}

// UnmarshalJSON decodes a JSON object keeping its key order.
// Members whose value is not a number are skipped.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	tok, err := dec.ReadToken()
	if err != nil {
		return fmt.Errorf("reading breakdown: %w", err)
	}
	if tok.Kind() == 'n' {
		*b = nil
		return nil
	}
	if tok.Kind() != '{' {
		return fmt.Errorf("breakdown must be an object, got %v", tok.Kind())
	}

	entries := Breakdown{}
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return fmt.Errorf("reading breakdown key: %w", err)
		}

		if dec.PeekKind() != '0' {
			if _, err := dec.ReadValue(); err != nil {
				return fmt.Errorf("skipping breakdown value for %s: %w", name.String(), err)
			}
			continue
		}

		val, err := dec.ReadToken()
		if err != nil {
			return fmt.Errorf("reading breakdown value for %s: %w", name.String(), err)
		}
		entries = append(entries, BreakdownEntry{Key: name.String(), Value: val.Float()})
	}

	if _, err := dec.ReadToken(); err != nil {
		return fmt.Errorf("closing breakdown: %w", err)
	}

	*b = entries
	return nil
}

// EVStatus is the current EV charging session
type EVStatus struct {
	ChargingPowerKW     float64 `json:"charging_power"`
	TimeToCompleteHours float64 `json:"time_to_complete"`
	CostEstimate        float64 `json:"cost_estimate"`
	CurrentChargeLevel  float64 `json:"current_charge_level,omitempty"` // kWh
	TargetCharge        float64 `json:"target_charge,omitempty"`        // kWh
	Percentage          float64 `json:"-"`                              // sent beside the object in the envelope
}

// Insight types the dashboard styles differently; any other value is neutral
const (
	InsightPositive = "positive"
	InsightWarning  = "warning"
)

// Insight is one recommendation shown in the insights list
type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Health is the backend liveness report
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
