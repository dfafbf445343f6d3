// Package config loads service configuration from compiled-in defaults, an
// optional YAML file and CARBON_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Config is the complete service configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	CORS         CORSConfig         `koanf:"cors"`
	RateLimit    RateLimitConfig    `koanf:"rate_limit"`
	Coefficients CoefficientsConfig `koanf:"coefficients"`
	Projection   ProjectionConfig   `koanf:"projection"`

	// TestMode logs every request and response at debug level.
	TestMode bool `koanf:"test_mode"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddr      string        `koanf:"listen_addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

// HasWildcard reports whether any origin is allowed.
func (c CORSConfig) HasWildcard() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// RateLimitConfig configures per-client request limiting. Zero requests disables it.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// CoefficientsConfig points at an optional coefficient override file.
type CoefficientsConfig struct {
	File string `koanf:"file"`
}

// ProjectionConfig holds the growth assumptions used when a request gives none.
type ProjectionConfig struct {
	UserGrowthRate  float64 `koanf:"user_growth_rate"`
	UsageGrowthRate float64 `koanf:"usage_growth_rate"`
	Periods         float64 `koanf:"periods"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{},
			MaxAge:         86400,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		Projection: ProjectionConfig{
			UserGrowthRate:  0.10,
			UsageGrowthRate: 0.05,
			Periods:         1,
		},
	}
}

// Validate reports every configuration error found, joined with errors.Join.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if c.CORS.HasWildcard() && c.CORS.AllowCredentials {
		errs = append(errs, errors.New("cannot enable credentials with wildcard origin (*); security risk"))
	}
	if c.CORS.MaxAge < 0 {
		errs = append(errs, fmt.Errorf("cors.max_age must not be negative, got %d", c.CORS.MaxAge))
	}

	if c.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests must not be negative, got %d", c.RateLimit.Requests))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive when rate limiting is enabled"))
	}

	if !validGrowthRate(c.Projection.UserGrowthRate) {
		errs = append(errs, fmt.Errorf("projection.user_growth_rate must be >= -1, got %v", c.Projection.UserGrowthRate))
	}
	if !validGrowthRate(c.Projection.UsageGrowthRate) {
		errs = append(errs, fmt.Errorf("projection.usage_growth_rate must be >= -1, got %v", c.Projection.UsageGrowthRate))
	}
	if c.Projection.Periods < 0 || math.IsInf(c.Projection.Periods, 0) || math.IsNaN(c.Projection.Periods) {
		errs = append(errs, fmt.Errorf("projection.periods must be >= 0, got %v", c.Projection.Periods))
	}

	return errors.Join(errs...)
}

// validGrowthRate matches the bound enforced by carbon.Project.
func validGrowthRate(rate float64) bool {
	return rate >= -1 && !math.IsInf(rate, 0)
}
