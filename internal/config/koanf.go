package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "CARBON_"

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CARBON_CONFIG"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"carbon-estimator.yaml",
	"carbon-estimator.yml",
	"/etc/carbon-estimator/config.yaml",
}

// envMappings maps lower-cased environment variable names to config keys.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"carbon_listen_addr":       "server.listen_addr",
	"carbon_read_timeout":      "server.read_timeout",
	"carbon_write_timeout":     "server.write_timeout",
	"carbon_shutdown_timeout":  "server.shutdown_timeout",
	"carbon_max_body_bytes":    "server.max_body_bytes",
	"carbon_log_level":         "logging.level",
	"carbon_log_format":        "logging.format",
	"carbon_cors_origins":      "cors.allowed_origins",
	"carbon_cors_credentials":  "cors.allow_credentials",
	"carbon_cors_max_age":      "cors.max_age",
	"carbon_rate_limit":        "rate_limit.requests",
	"carbon_rate_limit_window": "rate_limit.window",
	"carbon_coefficients_file": "coefficients.file",
	"carbon_user_growth_rate":  "projection.user_growth_rate",
	"carbon_usage_growth_rate": "projection.usage_growth_rate",
	"carbon_growth_periods":    "projection.periods",
	"carbon_test_mode":         "test_mode",
}

// sliceConfigPaths are parsed as comma-separated lists when set from the environment.
var sliceConfigPaths = []string{
	"cors.allowed_origins",
}

// Load builds the configuration from defaults, the YAML file at path (or the
// first default path that exists when path is empty) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
