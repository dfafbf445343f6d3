package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/platform-carbon-estimator/internal/carbon"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 86400, cfg.CORS.MaxAge)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 0.10, cfg.Projection.UserGrowthRate)
	assert.Equal(t, 0.05, cfg.Projection.UsageGrowthRate)
	assert.Equal(t, 1.0, cfg.Projection.Periods)
	assert.False(t, cfg.TestMode)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: "127.0.0.1:9000"
  write_timeout: 45s
logging:
  level: debug
  format: console
cors:
  allowed_origins:
    - https://dashboard.example.com
coefficients:
  file: /etc/carbon/coefficients.yaml
projection:
  periods: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddr)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "/etc/carbon/coefficients.yaml", cfg.Coefficients.File)
	assert.Equal(t, 3.0, cfg.Projection.Periods)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")

	t.Setenv("CARBON_LOG_LEVEL", "error")
	t.Setenv("CARBON_LISTEN_ADDR", ":7070")
	t.Setenv("CARBON_CORS_ORIGINS", "http://localhost:3000, https://app.example.com")
	t.Setenv("CARBON_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CARBON_USER_GROWTH_RATE", "0.2")
	t.Setenv("CARBON_TEST_MODE", "true")
	t.Setenv("CARBON_UNRELATED", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 0.2, cfg.Projection.UserGrowthRate)
	assert.True(t, cfg.TestMode)
}

func TestLoad_ConfigPathEnvVar(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_addr: \":6060\"\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.ListenAddr)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("wildcard with credentials", func(t *testing.T) {
		t.Setenv("CARBON_CORS_ORIGINS", "*")
		t.Setenv("CARBON_CORS_CREDENTIALS", "true")

		_, err := Load(writeConfig(t, ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wildcard")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := Load(writeConfig(t, "logging:\n  level: loud\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging.level")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.Server.ListenAddr = "" },
			wantErr: "listen_addr",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "timeouts",
		},
		{
			name:    "zero body limit",
			mutate:  func(c *Config) { c.Server.MaxBodyBytes = 0 },
			wantErr: "max_body_bytes",
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
		{
			name:    "wildcard with credentials",
			mutate:  func(c *Config) { c.CORS.AllowedOrigins = []string{"*"}; c.CORS.AllowCredentials = true },
			wantErr: "wildcard",
		},
		{
			name:   "wildcard alone is allowed",
			mutate: func(c *Config) { c.CORS.AllowedOrigins = []string{"*"} },
		},
		{
			name:    "negative max age",
			mutate:  func(c *Config) { c.CORS.MaxAge = -1 },
			wantErr: "max_age",
		},
		{
			name:    "rate limit without window",
			mutate:  func(c *Config) { c.RateLimit.Window = 0 },
			wantErr: "rate_limit.window",
		},
		{
			name:   "rate limit disabled",
			mutate: func(c *Config) { c.RateLimit.Requests = 0; c.RateLimit.Window = 0 },
		},
		{
			name:   "growth rates at -1 are allowed",
			mutate: func(c *Config) { c.Projection.UserGrowthRate = -1; c.Projection.UsageGrowthRate = -1 },
		},
		{
			name:    "user growth rate below -1",
			mutate:  func(c *Config) { c.Projection.UserGrowthRate = -1.5 },
			wantErr: "user_growth_rate",
		},
		{
			name:    "usage growth rate NaN",
			mutate:  func(c *Config) { c.Projection.UsageGrowthRate = math.NaN() },
			wantErr: "usage_growth_rate",
		},
		{
			name:    "negative periods",
			mutate:  func(c *Config) { c.Projection.Periods = -2 },
			wantErr: "periods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryError(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.ListenAddr = ""
	cfg.Logging.Format = "xml"
	cfg.Projection.Periods = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen_addr")
	assert.Contains(t, err.Error(), "logging.format")
	assert.Contains(t, err.Error(), "projection.periods")
}

func TestValidate_GrowthRateMatchesProjection(t *testing.T) {
	for _, rate := range []float64{-1.5, -1, 0, 0.25} {
		cfg := defaultConfig()
		cfg.Projection.UserGrowthRate = rate

		_, projectErr := carbon.Project(100, rate, 0, 1)
		assert.Equal(t, projectErr == nil, cfg.Validate() == nil, "rate=%v", rate)
	}
}

func TestCORSConfig_HasWildcard(t *testing.T) {
	assert.False(t, CORSConfig{}.HasWildcard())
	assert.False(t, CORSConfig{AllowedOrigins: []string{"https://a.example"}}.HasWildcard())
	assert.True(t, CORSConfig{AllowedOrigins: []string{"https://a.example", "*"}}.HasWildcard())
}
