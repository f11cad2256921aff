package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 0.001, cfg.FeeRate)
	assert.Equal(t, 3, cfg.Interval)
	assert.Equal(t, 17, cfg.Indicator.WideN)
	assert.Equal(t, "csv", cfg.Journal.Type)
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data_dir: /var/log/bot
fee_rate: 0.0005
interval: 5
indicator:
  pass1_n: 4
  wide_n: 20
journal:
  type: sqlite
  db_path: /tmp/trades.sqlite
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/log/bot", cfg.DataDir)
	assert.Equal(t, 0.0005, cfg.FeeRate)
	assert.Equal(t, 5, cfg.Interval)
	assert.Equal(t, 4, cfg.Indicator.Pass1N)
	assert.Equal(t, 20, cfg.Indicator.WideN)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "/tmp/trades.sqlite", cfg.Journal.DBPath)

	// unset fields keep their defaults.
	assert.Equal(t, 24, cfg.Indicator.FastN)
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	path := writeConfig(t, "config.json",
		`{"data_dir": "/data", "interval": 10}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, 10, cfg.Interval)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default ok", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative fee", func(c *Config) { c.FeeRate = -0.1 }, true},
		{"fee of one", func(c *Config) { c.FeeRate = 1 }, true},
		{"bad interval", func(c *Config) { c.Interval = 7 }, true},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }, true},
		{"sqlite journal", func(c *Config) { c.Journal.Type = "sqlite" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.DataDir = "/somewhere"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.DataDir, loaded.DataDir)
	assert.Equal(t, cfg.Indicator, loaded.Indicator)
}
