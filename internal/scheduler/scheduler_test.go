package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jgoulah/solardash/internal/charts"
	"github.com/jgoulah/solardash/internal/dashboard"
	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/fetcher"
	"github.com/jgoulah/solardash/pkg/models"
)

type fakeSource struct {
	dashboard, balance, breakdown, ev, insights atomic.Int32

	mu         sync.Mutex
	periods    []string
	gates      map[string]chan struct{}
	metrics    map[string]models.MetricsSnapshot
	metricsErr error
	balanceErr error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		gates: make(map[string]chan struct{}),
		metrics: map[string]models.MetricsSnapshot{
			"today": {SolarProduction: 1, TotalConsumption: 2, CostSavings: 3, CO2Offset: 4},
			"week":  {SolarProduction: 10, TotalConsumption: 20, CostSavings: 30, CO2Offset: 40},
			"month": {SolarProduction: 100, TotalConsumption: 200, CostSavings: 300, CO2Offset: 400},
		},
	}
}

func (f *fakeSource) gate(period string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[period] = ch
	return ch
}

func (f *fakeSource) setMetricsErr(err error) {
	f.mu.Lock()
	f.metricsErr = err
	f.mu.Unlock()
}

func (f *fakeSource) requestedPeriods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.periods...)
}

func (f *fakeSource) Dashboard(ctx context.Context, period string) (models.MetricsSnapshot, error) {
	f.dashboard.Add(1)

	f.mu.Lock()
	f.periods = append(f.periods, period)
	gate := f.gates[period]
	err := f.metricsErr
	m := f.metrics[period]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.MetricsSnapshot{}, ctx.Err()
		}
	}
	if err != nil {
		return models.MetricsSnapshot{}, err
	}
	return m, nil
}

func (f *fakeSource) EnergyBalance(ctx context.Context, granularity string, days int) ([]models.BalancePoint, error) {
	f.balance.Add(1)
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return []models.BalancePoint{
		{Period: "2024-01-02", SolarProduction: 4, Consumption: 6},
		{Period: "2024-01-03", SolarProduction: 5, Consumption: 7},
	}, nil
}

func (f *fakeSource) ConsumptionBreakdown(ctx context.Context) (models.Breakdown, error) {
	f.breakdown.Add(1)
	return models.Breakdown{{Key: "ev_charging", Value: 40}, {Key: "hvac", Value: 30}}, nil
}

func (f *fakeSource) EVCharging(ctx context.Context) (models.EVStatus, error) {
	f.ev.Add(1)
	return models.EVStatus{ChargingPowerKW: 7.2, TimeToCompleteHours: 0.5, CostEstimate: 2, Percentage: 100}, nil
}

func (f *fakeSource) Insights(ctx context.Context) ([]models.Insight, error) {
	f.insights.Add(1)
	return []models.Insight{}, nil
}

type recordingSink struct {
	mu      sync.Mutex
	periods []string
	evs     int
}

func (r *recordingSink) Metrics(ctx context.Context, period string, m models.MetricsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods = append(r.periods, period)
	return nil
}

func (r *recordingSink) EV(ctx context.Context, ev models.EVStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evs++
	return nil
}

func setup(t *testing.T, src Source, opts Options, ids ...string) (*Scheduler, *display.Page) {
	t.Helper()
	if len(ids) == 0 {
		ids = display.DefaultLayout
	}
	page := display.NewPage(ids...)
	renderer := dashboard.NewRenderer(page, charts.NewSVGFactory(), time.UTC, zap.NewNop())
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC) }
	}
	s := New(src, renderer, opts, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Stop(ctx)
	})
	return s, page
}

func TestRefreshAllRendersEverything(t *testing.T) {
	src := newFakeSource()
	sink := &recordingSink{}
	page := display.NewPage(display.DefaultLayout...)
	renderer := dashboard.NewRenderer(page, charts.NewSVGFactory(), time.UTC, zap.NewNop())
	s := New(src, renderer, Options{
		Now: func() time.Time { return time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC) },
	}, zap.NewNop(), sink)
	defer s.Stop(context.Background())

	require.NoError(t, s.RefreshAll(context.Background()))

	assert.EqualValues(t, 1, src.dashboard.Load())
	assert.EqualValues(t, 1, src.balance.Load())
	assert.EqualValues(t, 1, src.breakdown.Load())
	assert.EqualValues(t, 1, src.ev.Load())
	assert.EqualValues(t, 1, src.insights.Load())
	assert.Equal(t, []string{"today"}, src.requestedPeriods())

	snap := page.Snapshot()
	assert.Equal(t, "Wednesday, January 3, 2024", snap.Text(display.CurrentDate))
	assert.Equal(t, "today", snap.Text(display.PeriodSelect))
	assert.Equal(t, "1.0 kWh", snap.Text(display.SolarProd))
	assert.Equal(t, "Complete", snap.Text(display.EVStatusBadge))

	insights, _ := snap.Get(display.InsightsList)
	require.Len(t, insights.Items, 1)
	assert.Equal(t, dashboard.NoInsightsMessage, insights.Items[0].Message)

	balance, _ := snap.Get(display.EnergyBalanceChart)
	require.NotNil(t, balance.Drawing)
	assert.Equal(t, []string{"Tue", "Wed"}, balance.Drawing.Labels)
	assert.Equal(t, 2, renderer.Registry().Len())

	assert.Equal(t, []string{"today"}, sink.periods)
	assert.Equal(t, 1, sink.evs)
}

func TestRefreshAllWithoutFilterUsesDefaultPeriod(t *testing.T) {
	src := newFakeSource()
	s, _ := setup(t, src, Options{DefaultPeriod: "week"}, display.SolarProd)

	require.NoError(t, s.RefreshAll(context.Background()))
	assert.Equal(t, []string{"week"}, src.requestedPeriods())
	assert.False(t, s.SetPeriod("month"))
}

func TestRefreshAllReturnsFetchError(t *testing.T) {
	src := newFakeSource()
	src.balanceErr = &fetcher.NetworkError{Endpoint: fetcher.EndpointEnergyBalance, Err: errors.New("connection refused")}
	s, page := setup(t, src, Options{})

	err := s.RefreshAll(context.Background())
	var netErr *fetcher.NetworkError
	require.ErrorAs(t, err, &netErr)

	// the other fetches still rendered
	assert.Equal(t, "1.0 kWh", page.Snapshot().Text(display.SolarProd))
}

func TestUnsuccessfulResponseLeavesValues(t *testing.T) {
	src := newFakeSource()
	s, page := setup(t, src, Options{})
	require.NoError(t, s.RefreshAll(context.Background()))
	before := page.Snapshot()

	src.setMetricsErr(fetcher.ErrNotSuccessful)
	require.NoError(t, s.RefreshAll(context.Background()))

	after := page.Snapshot()
	for _, id := range []string{display.SolarProd, display.TotalCons, display.CostSave, display.CO2Offset} {
		assert.Equal(t, before.Text(id), after.Text(id), id)
	}
}

func TestIntervalRefreshesMetricsAndEVOnly(t *testing.T) {
	src := newFakeSource()
	s, _ := setup(t, src, Options{Interval: 10 * time.Millisecond})

	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return src.dashboard.Load() >= 4 && src.ev.Load() >= 4
	}, 2*time.Second, 5*time.Millisecond)

	assert.EqualValues(t, 1, src.balance.Load())
	assert.EqualValues(t, 1, src.breakdown.Load())
	assert.EqualValues(t, 1, src.insights.Load())
}

func TestStartTwiceRunsOneSession(t *testing.T) {
	src := newFakeSource()
	s, _ := setup(t, src, Options{Interval: time.Hour})

	s.Start(context.Background())
	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return src.insights.Load() >= 1 && src.dashboard.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	assert.EqualValues(t, 1, src.dashboard.Load())
	assert.EqualValues(t, 1, src.balance.Load())
	assert.EqualValues(t, 1, src.insights.Load())
}

func TestSetPeriodFetchesMetricsOnly(t *testing.T) {
	src := newFakeSource()
	s, page := setup(t, src, Options{Interval: time.Hour})
	require.NoError(t, s.RefreshAll(context.Background()))

	require.True(t, s.SetPeriod("week"))

	assert.Eventually(t, func() bool {
		return page.Snapshot().Text(display.SolarProd) == "10.0 kWh"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "week", s.Period())
	assert.EqualValues(t, 2, src.dashboard.Load())
	assert.EqualValues(t, 1, src.ev.Load())
	assert.EqualValues(t, 1, src.balance.Load())
}

func TestLastResolvedWins(t *testing.T) {
	src := newFakeSource()
	s, page := setup(t, src, Options{Interval: time.Hour})
	require.NoError(t, s.RefreshAll(context.Background()))

	weekGate := src.gate("week")
	require.True(t, s.SetPeriod("week"))
	assert.Eventually(t, func() bool {
		return len(src.requestedPeriods()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	require.True(t, s.SetPeriod("month"))
	assert.Eventually(t, func() bool {
		return page.Snapshot().Text(display.SolarProd) == "100.0 kWh"
	}, 2*time.Second, 5*time.Millisecond)

	// the older request resolves after the newer one and still renders
	close(weekGate)
	assert.Eventually(t, func() bool {
		return page.Snapshot().Text(display.SolarProd) == "10.0 kWh"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStopTearsDown(t *testing.T) {
	src := newFakeSource()
	s, page := setup(t, src, Options{Interval: 5 * time.Millisecond})

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		chart, _ := page.Snapshot().Get(display.EnergyBalanceChart)
		return src.dashboard.Load() >= 2 && chart.Drawing != nil
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	calls := src.dashboard.Load()

	s.SetPeriod("week")
	s.Refresh()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, src.dashboard.Load())

	// widgets released with the session
	chart, _ := page.Snapshot().Get(display.EnergyBalanceChart)
	assert.Nil(t, chart.Drawing)
}

func TestStopBlockedFetch(t *testing.T) {
	src := newFakeSource()
	src.gate("today")
	s, _ := setup(t, src, Options{Interval: time.Hour})

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return src.dashboard.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestPageNotifiedAfterRender(t *testing.T) {
	src := newFakeSource()
	s, page := setup(t, src, Options{})

	var notified atomic.Int32
	page.OnChange(func() { notified.Add(1) })

	require.NoError(t, s.RefreshAll(context.Background()))
	// date plus five payloads
	assert.EqualValues(t, 6, notified.Load())
}

func TestLoopRunsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop()
	go l.Run(ctx)

	var got []int
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Do(ctx, func() { got = append(got, i) }))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	cancel()
	<-l.Done()
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrLoopClosed)
}
