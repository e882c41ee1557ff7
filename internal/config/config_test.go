package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	require.Zero(t, cfg.API.Timeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, "http or https"},
		{"host", func(c *Config) { c.API.BaseURL = "http://" }, "host"},
		{"timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"top n", func(c *Config) { c.API.TopN = -1 }, "api.top_n"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"theme", func(c *Config) { c.TUI.Theme = "matrix" }, "tui.theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://risk.example.com/api/
  top_n: 25
logging:
  level: debug
  file: ~/riskdesk.log
tui:
  theme: high-contrast
`), 0o644))

	t.Setenv("RISKDESK_API_TOP_N", "10")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://risk.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 10, cfg.API.TopN)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "high-contrast", cfg.TUI.Theme)

	home, _ := os.UserHomeDir()
	require.Equal(t, filepath.Join(home, "riskdesk.log"), cfg.Logging.File)
}

func TestLoadFromMissingExplicitFileFails(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoaderSetOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file.example/api\n"), 0o644))

	loader := NewLoader()
	loader.SetConfigFile(path)
	loader.Set("api.base_url", "http://flag.example/api")

	cfg, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, "http://flag.example/api", cfg.API.BaseURL)
	require.Equal(t, path, loader.ConfigFileUsed())
}
