package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/solardash/internal/config"
	"github.com/jgoulah/solardash/internal/dashboard"
	"github.com/jgoulah/solardash/internal/format"
	"github.com/jgoulah/solardash/pkg/models"
)

const publishTimeout = 10 * time.Second

// client is the part of mqtt.Client the publisher uses
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher mirrors dashboard values to an MQTT broker
type Publisher struct {
	client      client
	topicPrefix string
}

// New connects to the broker in cfg
func New(cfg config.MQTTConfig, topicPrefix string) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	// unique per process so two dashboards don't kick each other off
	opts.SetClientID("solardash-" + uuid.NewString())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newPublisher(c, topicPrefix), nil
}

func newPublisher(c client, topicPrefix string) *Publisher {
	return &Publisher{client: c, topicPrefix: topicPrefix}
}

// MetricsDisplay holds the formatted card values
type MetricsDisplay struct {
	SolarProduction  string `json:"solar_production"`
	TotalConsumption string `json:"total_consumption"`
	CostSavings      string `json:"cost_savings"`
	CO2Offset        string `json:"co2_offset"`
}

// MetricsPayload is published to <prefix>/metrics
type MetricsPayload struct {
	Period           string         `json:"period"`
	SolarProduction  float64        `json:"solar_production"`
	TotalConsumption float64        `json:"total_consumption"`
	CostSavings      float64        `json:"cost_savings"`
	CO2Offset        float64        `json:"co2_offset"`
	Display          MetricsDisplay `json:"display"`
	Timestamp        string         `json:"timestamp"`
}

// EVPayload is published to <prefix>/ev
type EVPayload struct {
	ChargingPower  float64 `json:"charging_power"`
	TimeToComplete float64 `json:"time_to_complete"`
	CostEstimate   float64 `json:"cost_estimate"`
	Percentage     int     `json:"percentage"`
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
}

// NewMetricsPayload builds the metrics message
func NewMetricsPayload(period string, m models.MetricsSnapshot, at time.Time) MetricsPayload {
	return MetricsPayload{
		Period:           period,
		SolarProduction:  m.SolarProduction,
		TotalConsumption: m.TotalConsumption,
		CostSavings:      m.CostSavings,
		CO2Offset:        m.CO2Offset,
		Display: MetricsDisplay{
			SolarProduction:  format.Energy(m.SolarProduction),
			TotalConsumption: format.Energy(m.TotalConsumption),
			CostSavings:      format.Currency(m.CostSavings),
			CO2Offset:        format.Mass(m.CO2Offset),
		},
		Timestamp: at.Format(time.RFC3339),
	}
}

// NewEVPayload builds the EV message
func NewEVPayload(ev models.EVStatus, at time.Time) EVPayload {
	pct := format.Percent(ev.Percentage)
	return EVPayload{
		ChargingPower:  ev.ChargingPowerKW,
		TimeToComplete: ev.TimeToCompleteHours,
		CostEstimate:   ev.CostEstimate,
		Percentage:     pct,
		Status:         dashboard.BadgeText(pct),
		Timestamp:      at.Format(time.RFC3339),
	}
}

// Topic returns the full topic for a sub-topic
func (p *Publisher) Topic(name string) string {
	return p.topicPrefix + "/" + name
}

// PublishMetrics publishes a retained metrics message
func (p *Publisher) PublishMetrics(period string, m models.MetricsSnapshot, at time.Time) error {
	return p.publish(p.Topic("metrics"), true, NewMetricsPayload(period, m, at))
}

// PublishEV publishes a retained EV message
func (p *Publisher) PublishEV(ev models.EVStatus, at time.Time) error {
	return p.publish(p.Topic("ev"), true, NewEVPayload(ev, at))
}

// PublishRecord publishes a recorded snapshot to <prefix>/history. History
// messages are not retained.
func (p *Publisher) PublishRecord(rec models.MetricsRecord) error {
	return p.publish(p.Topic("history"), false, NewMetricsPayload(rec.Period, rec.Metrics, rec.RecordedAt))
}

func (p *Publisher) publish(topic string, retained bool, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(topic, 1, retained, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
