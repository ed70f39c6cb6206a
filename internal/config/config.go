package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	BaseURL                string        `yaml:"base_url,omitempty"`                 // e.g., "http://localhost:5000"
	DefaultPeriod          string        `yaml:"default_period,omitempty"`           // Initial period filter (fallback: today)
	RefreshIntervalSeconds int           `yaml:"refresh_interval_seconds,omitempty"` // Interval refresh (fallback: 30)
	Timezone               string        `yaml:"timezone,omitempty"`                 // IANA name for date labels (fallback: local)
	OutputDir              string        `yaml:"output_dir,omitempty"`               // snapshot --out target (fallback: out)
	Balance                BalanceConfig `yaml:"balance,omitempty"`
	Layout                 LayoutConfig  `yaml:"layout,omitempty"`
	History                HistoryConfig `yaml:"history,omitempty"`
	MQTT                   MQTTConfig    `yaml:"mqtt,omitempty"`
	Web                    WebConfig     `yaml:"web,omitempty"`
	Log                    LogConfig     `yaml:"log,omitempty"`
}

// BalanceConfig controls the energy balance series request
type BalanceConfig struct {
	Granularity string `yaml:"granularity,omitempty"` // "day" or "hour"
	Days        int    `yaml:"days,omitempty"`
}

// LayoutConfig selects which page targets exist
type LayoutConfig struct {
	Omit []string `yaml:"omit,omitempty"` // target ids left off the page, e.g. "insightsList"
}

// HistoryConfig holds the snapshot history database settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path,omitempty"`
}

// MQTTConfig holds MQTT broker settings for mirroring dashboard values
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: solardash
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// WebConfig holds the HTTP view settings
type WebConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // console or json
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// MQTT credentials may live here
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetBaseURL returns the backend base URL with a default of http://localhost:5000
func (c *Config) GetBaseURL() string {
	if c.BaseURL == "" {
		return "http://localhost:5000"
	}
	return c.BaseURL
}

// GetDefaultPeriod returns the initial period filter with a default of "today"
func (c *Config) GetDefaultPeriod() string {
	if c.DefaultPeriod == "" {
		return "today"
	}
	return c.DefaultPeriod
}

// GetRefreshInterval returns the interval refresh period with a default of 30s
func (c *Config) GetRefreshInterval() time.Duration {
	if c.RefreshIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// GetBalanceGranularity returns the balance series bucket size with a default of "day"
func (c *Config) GetBalanceGranularity() string {
	if c.Balance.Granularity == "" {
		return "day"
	}
	return c.Balance.Granularity
}

// GetBalanceDays returns the balance series length with a default of 7
func (c *Config) GetBalanceDays() int {
	if c.Balance.Days <= 0 {
		return 7
	}
	return c.Balance.Days
}

// GetLocation returns the display time zone, falling back to local time
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetOutputDir returns the snapshot output directory with a default of "out"
func (c *Config) GetOutputDir() string {
	if c.OutputDir == "" {
		return "out"
	}
	return c.OutputDir
}

// GetHistoryDBPath returns the history database path with a default of history.db
func (c *Config) GetHistoryDBPath() string {
	if c.History.DBPath == "" {
		return "history.db"
	}
	return c.History.DBPath
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "solardash"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "solardash"
	}
	return c.MQTT.TopicPrefix
}

// GetListenAddr returns the HTTP view listen address with a default of :8080
func (c *Config) GetListenAddr() string {
	if c.Web.Listen == "" {
		return ":8080"
	}
	return c.Web.Listen
}

// GetLogLevel returns the log level with a default of "info"
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// GetLogFormat returns the log format with a default of "console"
func (c *Config) GetLogFormat() string {
	if c.Log.Format == "" {
		return "console"
	}
	return c.Log.Format
}
