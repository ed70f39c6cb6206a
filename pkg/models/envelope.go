package models

// Envelope is the flag every dashboard API response carries
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// DashboardResponse is the /api/dashboard payload
type DashboardResponse struct {
	Period        string           `json:"period"`
	Metrics       *MetricsSnapshot `json:"metrics"`
	ReadingsCount int              `json:"readings_count"`
}

// EnergyBalanceResponse is the /api/energy-balance payload
type EnergyBalanceResponse struct {
	Period string          `json:"period"`
	Days   int             `json:"days"`
	Data   *[]BalancePoint `json:"data"`
}

// BreakdownResponse is the /api/consumption-breakdown payload
type BreakdownResponse struct {
	Breakdown *Breakdown `json:"breakdown"`
}

// EVChargingResponse is the /api/ev-charging payload
type EVChargingResponse struct {
	EVCharging *EVStatus `json:"ev_charging"`
	Percentage float64   `json:"percentage"`
}

// InsightsResponse is the /api/insights payload
type InsightsResponse struct {
	Insights *[]Insight `json:"insights"`
}
