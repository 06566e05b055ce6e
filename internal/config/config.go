// Package config provides configuration loading for the PageMonk client.
// Supports a YAML config file, a .env file and environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the client.
type Config struct {
	Backend       BackendConfig       `yaml:"backend"`
	Processing    ProcessingConfig    `yaml:"processing"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// BackendConfig holds backend connection settings.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ProcessingConfig holds the orchestrator's polling settings.
type ProcessingConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	PollBudget   int           `yaml:"poll_budget"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from an optional YAML file and applies
// environment overrides. A .env file next to the working directory is
// loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for a
// local backend.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		Processing: ProcessingConfig{
			PollInterval: 2 * time.Second,
			PollBudget:   150,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url cannot be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.Backend.Timeout)
	}
	if c.Processing.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.Processing.PollInterval)
	}
	if c.Processing.PollBudget < 1 {
		return fmt.Errorf("poll_budget must be at least 1, got %d", c.Processing.PollBudget)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PAGEMONK_API_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}

	if v := os.Getenv("PAGEMONK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}

	if v := os.Getenv("PAGEMONK_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Processing.PollInterval = d
		}
	}

	if v := os.Getenv("PAGEMONK_POLL_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Processing.PollBudget = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
