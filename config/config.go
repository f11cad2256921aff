// Package config loads the analyzer configuration from a YAML (or JSON)
// file and fills in defaults for anything unset.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"acclens/acclog"
	"acclens/indicator"
	"acclens/market"
)

// Config is the complete analyzer configuration.
type Config struct {
	// DataDir holds the daily acc_log files.
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// FeeRate is the settlement fee charged against invested notional.
	FeeRate float64 `json:"fee_rate" yaml:"fee_rate"`
	// Interval is the base candle granularity in minutes for replayed
	// indicator computation.
	Interval int `json:"interval" yaml:"interval"`

	Indicator indicator.Params `json:"indicator" yaml:"indicator"`
	Journal   JournalConfig    `json:"journal" yaml:"journal"`
}

// JournalConfig selects where an export lands.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:   "./data",
		FeeRate:   acclog.FeeRate,
		Interval:  3,
		Indicator: indicator.DefaultParams(),
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			DBPath:     "./trades.sqlite",
		},
	}
}

// LoadFromFile reads path as YAML, falling back to JSON, validates, and
// returns the result merged over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values nothing downstream can work
// with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.FeeRate < 0 || c.FeeRate >= 1 {
		return fmt.Errorf("fee_rate must be in [0, 1), got %v", c.FeeRate)
	}
	if _, err := market.ParseInterval(c.Interval); err != nil {
		return err
	}
	switch strings.ToLower(c.Journal.Type) {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be csv or sqlite, got %q", c.Journal.Type)
	}
	return nil
}

// SaveToFile writes the configuration back out, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
