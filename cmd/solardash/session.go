package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/solardash/internal/charts"
	"github.com/jgoulah/solardash/internal/config"
	"github.com/jgoulah/solardash/internal/dashboard"
	"github.com/jgoulah/solardash/internal/database"
	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/fetcher"
	"github.com/jgoulah/solardash/internal/publisher"
	"github.com/jgoulah/solardash/internal/scheduler"
	"github.com/jgoulah/solardash/pkg/models"
)

// session is one dashboard page kept up to date by a scheduler
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	client    *fetcher.Client
	page      *display.Page
	renderer  *dashboard.Renderer
	scheduler *scheduler.Scheduler

	db   *database.DB
	pub  *publisher.Publisher
	mqtt *mqttSink
}

// sessionOptions selects which sinks a session opens beyond the config
type sessionOptions struct {
	history bool
	mqtt    bool
}

// newSession wires a page, renderer and scheduler from cfg. History and MQTT
// sinks are opened when enabled in cfg or forced by opts.
func newSession(cfg *config.Config, logger *zap.Logger, opts sessionOptions) (*session, error) {
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		client: fetcher.New(cfg.GetBaseURL(), fetcher.WithLogger(logger.With(zap.String("component", "fetcher")))),
		page:   display.NewPage(display.Layout(cfg.Layout.Omit)...),
	}
	s.renderer = dashboard.NewRenderer(s.page, charts.NewSVGFactory(), loc, logger)

	var sinks []scheduler.Sink
	if cfg.History.Enabled || opts.history {
		s.db, err = openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		sinks = append(sinks, historySink{db: s.db})
	}
	if cfg.MQTT.Enabled || opts.mqtt {
		s.pub, err = publisher.New(cfg.MQTT, cfg.GetTopicPrefix())
		if err != nil {
			s.close(context.Background())
			return nil, fmt.Errorf("creating publisher: %w", err)
		}
		s.mqtt = &mqttSink{pub: s.pub}
		sinks = append(sinks, s.mqtt)
	}

	s.scheduler = scheduler.New(s.client, s.renderer, scheduler.Options{
		Interval:      cfg.GetRefreshInterval(),
		DefaultPeriod: cfg.GetDefaultPeriod(),
		Granularity:   cfg.GetBalanceGranularity(),
		Days:          cfg.GetBalanceDays(),
	}, logger, sinks...)

	return s, nil
}

// close stops the scheduler and releases the sinks
func (s *session) close(ctx context.Context) {
	if s.scheduler != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.scheduler.Stop(ctx); err != nil {
			s.logger.Warn("stopping scheduler", zap.Error(err))
		}
	}
	if s.pub != nil {
		s.pub.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

// logHealth reports the backend health once
func (s *session) logHealth(ctx context.Context) {
	h, err := s.client.Health(ctx)
	if err != nil {
		s.logger.Warn("backend health check failed", zap.String("base_url", s.client.BaseURL()), zap.Error(err))
		return
	}
	s.logger.Info("backend health",
		zap.String("base_url", s.client.BaseURL()),
		zap.String("status", h.Status),
		zap.String("message", h.Message))
}

// historySink records rendered values in the history database
type historySink struct {
	db *database.DB
}

func (h historySink) Metrics(_ context.Context, period string, m models.MetricsSnapshot) error {
	return h.db.RecordMetrics(period, m, time.Now())
}

func (h historySink) EV(_ context.Context, ev models.EVStatus) error {
	return h.db.RecordEV(ev, time.Now())
}

// mqttSink mirrors rendered values to the broker and counts what it sent
type mqttSink struct {
	pub     *publisher.Publisher
	metrics atomic.Int64
	ev      atomic.Int64
}

func (p *mqttSink) Metrics(_ context.Context, period string, m models.MetricsSnapshot) error {
	if err := p.pub.PublishMetrics(period, m, time.Now()); err != nil {
		return err
	}
	p.metrics.Add(1)
	return nil
}

func (p *mqttSink) EV(_ context.Context, ev models.EVStatus) error {
	if err := p.pub.PublishEV(ev, time.Now()); err != nil {
		return err
	}
	p.ev.Add(1)
	return nil
}

// published returns the topic names that received at least one message
func (p *mqttSink) published() []string {
	var names []string
	if p.metrics.Load() > 0 {
		names = append(names, "metrics")
	}
	if p.ev.Load() > 0 {
		names = append(names, "ev")
	}
	return names
}
