// Package config handles loading and validating bridge configuration from
// YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tradier-bridge/internal/tradier"
)

// Config is the root configuration structure for the bridge.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Tradier TradierConfig `yaml:"tradier"`
	History HistoryConfig `yaml:"history"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// TradierConfig holds brokerage API settings.
type TradierConfig struct {
	LiveEndpoint    string `yaml:"liveEndpoint"`
	SandboxEndpoint string `yaml:"sandboxEndpoint"`
	TimeoutSeconds  int    `yaml:"timeoutSeconds"`
}

// HistoryConfig holds market-data history settings.
type HistoryConfig struct {
	// RetentionDays is how far back the provider retains 1-minute bars.
	// Requests further back are narrowed, not failed.
	RetentionDays int `yaml:"retentionDays"`
	// MaxTicks caps one history call and is reported to the host through the
	// capability table.
	MaxTicks int `yaml:"maxTicks"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a configuration with every field at its default. The plugin
// falls back to it when no config file is present; opening must still succeed.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Tradier.TimeoutSeconds) * time.Second
}

// setDefaults applies sensible defaults for unset fields.
func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "log/output.log"
	}
	if c.Tradier.LiveEndpoint == "" {
		c.Tradier.LiveEndpoint = tradier.LiveEndpoint
	}
	if c.Tradier.SandboxEndpoint == "" {
		c.Tradier.SandboxEndpoint = tradier.SandboxEndpoint
	}
	if c.Tradier.TimeoutSeconds == 0 {
		c.Tradier.TimeoutSeconds = 30
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 27
	}
	if c.History.MaxTicks == 0 {
		c.History.MaxTicks = 300
	}
}
