package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.GetBaseURL())
	assert.Equal(t, "today", cfg.GetDefaultPeriod())
	assert.Equal(t, 30*time.Second, cfg.GetRefreshInterval())
	assert.Equal(t, "day", cfg.GetBalanceGranularity())
	assert.Equal(t, 7, cfg.GetBalanceDays())
	assert.Equal(t, "out", cfg.GetOutputDir())
	assert.Equal(t, "history.db", cfg.GetHistoryDBPath())
	assert.Equal(t, "solardash", cfg.GetTopicPrefix())
	assert.Equal(t, ":8080", cfg.GetListenAddr())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, "console", cfg.GetLogFormat())

	loc, err := cfg.GetLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
base_url: http://solar.local:5000
default_period: week
refresh_interval_seconds: 10
timezone: UTC
balance:
  granularity: hour
  days: 1
layout:
  omit: [insightsList, periodSelect]
history:
  enabled: true
  db_path: /tmp/h.db
mqtt:
  enabled: true
  broker: mqtt.local:1883
  topic_prefix: house/solar
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://solar.local:5000", cfg.GetBaseURL())
	assert.Equal(t, "week", cfg.GetDefaultPeriod())
	assert.Equal(t, 10*time.Second, cfg.GetRefreshInterval())
	assert.Equal(t, "hour", cfg.GetBalanceGranularity())
	assert.Equal(t, 1, cfg.GetBalanceDays())
	assert.Equal(t, []string{"insightsList", "periodSelect"}, cfg.Layout.Omit)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/h.db", cfg.GetHistoryDBPath())
	assert.Equal(t, "mqtt.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, "house/solar", cfg.GetTopicPrefix())
	assert.Equal(t, "json", cfg.GetLogFormat())

	loc, err := cfg.GetLocation()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestBadTimezone(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus_Mons"}
	_, err := cfg.GetLocation()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{BaseURL: "http://x:1", MQTT: MQTTConfig{Enabled: true, Broker: "b:1883"}}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
