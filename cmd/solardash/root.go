package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/solardash/internal/config"
	"github.com/jgoulah/solardash/internal/database"
	"github.com/jgoulah/solardash/internal/logging"
)

var (
	cfgFile string
	dbPath  string
	baseURL string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "solardash",
	Short: "Live home solar and EV charging dashboard",
	Long: `SolarDash polls a home energy backend and keeps a dashboard of solar production,
consumption, savings, EV charging and insights up to date. The dashboard can be
watched in the terminal, served over HTTP, saved as HTML or captured as an image.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database file (default is ./history.db)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "dashboard backend URL (default is http://localhost:5000)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the history database path
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetHistoryDBPath()
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.GetLogLevel(), cfg.GetLogFormat())
}

// openDB opens the history database
func openDB(cfg *config.Config) (*database.DB, error) {
	path := getDBPath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}
