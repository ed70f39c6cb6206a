// Package scheduler drives the dashboard refresh: the on-load fan-out, the
// repeating interval refresh and period filter changes.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/solardash/internal/dashboard"
	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/fetcher"
	"github.com/jgoulah/solardash/internal/format"
	"github.com/jgoulah/solardash/pkg/models"
)

// Defaults used when Options leaves a field empty
const (
	DefaultPeriod   = "today"
	DefaultInterval = 30 * time.Second
	DefaultDays     = 7
)

// Source is where dashboard payloads come from
type Source interface {
	Dashboard(ctx context.Context, period string) (models.MetricsSnapshot, error)
	EnergyBalance(ctx context.Context, granularity string, days int) ([]models.BalancePoint, error)
	ConsumptionBreakdown(ctx context.Context) (models.Breakdown, error)
	EVCharging(ctx context.Context) (models.EVStatus, error)
	Insights(ctx context.Context) ([]models.Insight, error)
}

// Sink receives metrics and EV payloads after they have been rendered
type Sink interface {
	Metrics(ctx context.Context, period string, m models.MetricsSnapshot) error
	EV(ctx context.Context, ev models.EVStatus) error
}

// Options configures a Scheduler
type Options struct {
	Interval      time.Duration
	DefaultPeriod string
	Granularity   string
	Days          int
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.DefaultPeriod == "" {
		o.DefaultPeriod = DefaultPeriod
	}
	if o.Granularity == "" {
		o.Granularity = format.GranularityDay
	}
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Scheduler refreshes a dashboard page from a Source. Fetches run
// concurrently and never cancel each other; every render goes through one
// render loop, so the response that resolves last is the one shown.
type Scheduler struct {
	src      Source
	renderer *dashboard.Renderer
	opts     Options
	logger   *zap.Logger
	sinks    []Sink
	loop     *Loop

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	opened  bool
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// New creates a scheduler rendering through renderer
func New(src Source, renderer *dashboard.Renderer, opts Options, logger *zap.Logger, sinks ...Sink) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		src:      src,
		renderer: renderer,
		opts:     opts.withDefaults(),
		logger:   logger.With(zap.String("component", "scheduler")),
		sinks:    sinks,
		loop:     NewLoop(),
	}
}

// open starts the render loop for the session
func (s *Scheduler) open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return
	}
	s.opened = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	if el, ok := s.page().Lookup(display.PeriodSelect); ok && el.Text() == "" {
		el.SetText(s.opts.DefaultPeriod)
	}
	go s.loop.Run(s.ctx)
}

// Start fires the on-load refresh and starts the interval timer. It returns
// immediately; call Stop to tear the session down. Only the first call on a
// live scheduler has any effect.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.open(ctx)

	s.spawn(func(ctx context.Context) {
		_ = s.onLoad(ctx)
	})
	s.spawn(s.tick)

	s.logger.Info("scheduler started",
		zap.Duration("interval", s.opts.Interval),
		zap.String("period", s.Period()))
}

// RefreshAll performs the on-load fan-out and waits until every fetch has
// resolved and rendered. Logical failures are not errors; the first network
// or decode error is returned after all fetches finish.
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	s.open(ctx)
	return s.onLoad(ctx)
}

func (s *Scheduler) onLoad(ctx context.Context) error {
	if err := s.render(ctx, func() { s.renderer.Date(s.opts.Now()) }); err != nil {
		return err
	}

	period := s.Period()

	var g errgroup.Group
	g.Go(func() error { return s.refreshMetrics(ctx, period) })
	g.Go(func() error { return s.refreshBalance(ctx) })
	g.Go(func() error { return s.refreshBreakdown(ctx) })
	g.Go(func() error { return s.refreshEV(ctx) })
	g.Go(func() error { return s.refreshInsights(ctx) })
	return g.Wait()
}

func (s *Scheduler) tick(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("interval timer stopped")
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Refresh re-issues the summary metrics for the selected period and the EV
// status without waiting for them
func (s *Scheduler) Refresh() {
	period := s.Period()
	s.spawn(func(ctx context.Context) { _ = s.refreshMetrics(ctx, period) })
	s.spawn(func(ctx context.Context) { _ = s.refreshEV(ctx) })
}

// SetPeriod changes the selected period and re-fetches the summary metrics.
// It reports false when the page has no period filter.
func (s *Scheduler) SetPeriod(period string) bool {
	el, ok := s.page().Lookup(display.PeriodSelect)
	if !ok {
		return false
	}

	s.spawn(func(ctx context.Context) {
		if err := s.render(ctx, func() { el.SetText(period) }); err != nil {
			return
		}
		_ = s.refreshMetrics(ctx, period)
	})
	return true
}

// Period returns the period selected in the filter control
func (s *Scheduler) Period() string {
	el, ok := s.page().Lookup(display.PeriodSelect)
	if !ok {
		return s.opts.DefaultPeriod
	}
	if p := el.Text(); p != "" {
		return p
	}
	return s.opts.DefaultPeriod
}

// Stop cancels the session, waits for in-flight work and the render loop to
// finish, then releases the chart widgets. If ctx ends first its error is
// returned and the widgets are left alone.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.opened || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-s.loop.Done()
		close(done)
	}()

	select {
	case <-done:
		s.renderer.Release()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler shutdown timed out")
		return ctx.Err()
	}
}

// spawn runs fn on a tracked goroutine bound to the session context
func (s *Scheduler) spawn(fn func(ctx context.Context)) {
	s.mu.Lock()
	if !s.opened || s.stopped {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(ctx)
	}()
}

func (s *Scheduler) page() *display.Page {
	return s.renderer.Page()
}

// render runs fn on the render loop and notifies the page listener
func (s *Scheduler) render(ctx context.Context, fn func()) error {
	return s.loop.Do(ctx, func() {
		fn()
		s.page().Notify()
	})
}

func (s *Scheduler) refreshMetrics(ctx context.Context, period string) error {
	m, err := s.src.Dashboard(ctx, period)
	if err != nil {
		return s.failed(fetcher.EndpointDashboard, err)
	}
	if err := s.render(ctx, func() { s.renderer.Metrics(m) }); err != nil {
		return err
	}

	for _, sink := range s.sinks {
		if err := sink.Metrics(ctx, period, m); err != nil {
			s.logger.Warn("metrics sink failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Scheduler) refreshBalance(ctx context.Context) error {
	points, err := s.src.EnergyBalance(ctx, s.opts.Granularity, s.opts.Days)
	if err != nil {
		return s.failed(fetcher.EndpointEnergyBalance, err)
	}
	return s.render(ctx, func() { s.renderer.Balance(points, s.opts.Granularity) })
}

func (s *Scheduler) refreshBreakdown(ctx context.Context) error {
	b, err := s.src.ConsumptionBreakdown(ctx)
	if err != nil {
		return s.failed(fetcher.EndpointBreakdown, err)
	}
	return s.render(ctx, func() { s.renderer.Breakdown(b) })
}

func (s *Scheduler) refreshEV(ctx context.Context) error {
	ev, err := s.src.EVCharging(ctx)
	if err != nil {
		return s.failed(fetcher.EndpointEVCharging, err)
	}
	if err := s.render(ctx, func() { s.renderer.EV(ev) }); err != nil {
		return err
	}

	for _, sink := range s.sinks {
		if err := sink.EV(ctx, ev); err != nil {
			s.logger.Warn("ev sink failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Scheduler) refreshInsights(ctx context.Context) error {
	list, err := s.src.Insights(ctx)
	if err != nil {
		return s.failed(fetcher.EndpointInsights, err)
	}
	return s.render(ctx, func() { s.renderer.Insights(list) })
}

// failed logs a fetch error. Logical failures and teardown cancellations
// mean "nothing to update" and are swallowed.
func (s *Scheduler) failed(endpoint string, err error) error {
	switch {
	case fetcher.IsLogicalFailure(err):
		s.logger.Debug("no update", zap.String("endpoint", endpoint))
		return nil
	case errors.Is(err, context.Canceled):
		s.logger.Debug("fetch cancelled", zap.String("endpoint", endpoint))
		return nil
	default:
		s.logger.Warn("fetch failed", zap.String("endpoint", endpoint), zap.Error(err))
		return err
	}
}
