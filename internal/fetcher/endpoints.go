package fetcher

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jgoulah/solardash/pkg/models"
)

// Dashboard fetches the summary metrics for a reporting period
func (c *Client) Dashboard(ctx context.Context, period string) (models.MetricsSnapshot, error) {
	var resp models.DashboardResponse
	if err := c.Get(ctx, EndpointDashboard, &resp, Param{"period", period}); err != nil {
		return models.MetricsSnapshot{}, err
	}
	if resp.Metrics == nil {
		return models.MetricsSnapshot{}, missing(EndpointDashboard, "metrics")
	}
	return *resp.Metrics, nil
}

// EnergyBalance fetches the balance series bucketed by granularity
func (c *Client) EnergyBalance(ctx context.Context, granularity string, days int) ([]models.BalancePoint, error) {
	var resp models.EnergyBalanceResponse
	err := c.Get(ctx, EndpointEnergyBalance, &resp,
		Param{"period", granularity},
		Param{"days", strconv.Itoa(days)},
	)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, missing(EndpointEnergyBalance, "data")
	}
	return *resp.Data, nil
}

// ConsumptionBreakdown fetches the category shares in backend order
func (c *Client) ConsumptionBreakdown(ctx context.Context) (models.Breakdown, error) {
	var resp models.BreakdownResponse
	if err := c.Get(ctx, EndpointBreakdown, &resp); err != nil {
		return nil, err
	}
	if resp.Breakdown == nil {
		return nil, missing(EndpointBreakdown, "breakdown")
	}
	return *resp.Breakdown, nil
}

// EVCharging fetches the EV charging session and its charge percentage
func (c *Client) EVCharging(ctx context.Context) (models.EVStatus, error) {
	var resp models.EVChargingResponse
	if err := c.Get(ctx, EndpointEVCharging, &resp); err != nil {
		return models.EVStatus{}, err
	}
	if resp.EVCharging == nil {
		return models.EVStatus{}, missing(EndpointEVCharging, "ev_charging")
	}
	ev := *resp.EVCharging
	ev.Percentage = resp.Percentage
	return ev, nil
}

// Insights fetches the current recommendations
func (c *Client) Insights(ctx context.Context) ([]models.Insight, error) {
	var resp models.InsightsResponse
	if err := c.Get(ctx, EndpointInsights, &resp); err != nil {
		return nil, err
	}
	if resp.Insights == nil {
		return nil, missing(EndpointInsights, "insights")
	}
	return *resp.Insights, nil
}

// Health checks the backend. The health endpoint carries no success flag.
func (c *Client) Health(ctx context.Context) (models.Health, error) {
	body, status, err := c.do(ctx, EndpointHealth, c.URL(EndpointHealth))
	if err != nil {
		return models.Health{}, err
	}

	var h models.Health
	if err := json.Unmarshal(body, &h); err != nil {
		return models.Health{}, &DecodeError{Endpoint: EndpointHealth, StatusCode: status, Err: err}
	}
	return h, nil
}
