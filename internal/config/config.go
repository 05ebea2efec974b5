package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a pland service.
type Config struct {
	Version     int      `yaml:"version"`
	Listen      string   `yaml:"listen"`                 // host:port for the HTTP API
	Database    string   `yaml:"database"`               // path to the SQLite file
	LogLevel    string   `yaml:"log_level,omitempty"`    // debug, info, warn, error
	CORSOrigins []string `yaml:"cors_origins,omitempty"` // allowed origins; ["*"] allows all

	ReadTimeoutSec  int `yaml:"read_timeout_sec,omitempty"`  // 0 = default 10
	WriteTimeoutSec int `yaml:"write_timeout_sec,omitempty"` // 0 = default 30
	IdleTimeoutSec  int `yaml:"idle_timeout_sec,omitempty"`  // 0 = default 60
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a starter config suitable for local use.
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		Listen:      "127.0.0.1:8080",
		Database:    "pland.db",
		LogLevel:    "info",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

func (c *Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if c.Database == "" {
		return fmt.Errorf("config: database path is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// ReadTimeout returns the effective read timeout in seconds.
func (c *Config) ReadTimeout() int {
	if c.ReadTimeoutSec > 0 {
		return c.ReadTimeoutSec
	}
	return 10
}

// WriteTimeout returns the effective write timeout in seconds.
func (c *Config) WriteTimeout() int {
	if c.WriteTimeoutSec > 0 {
		return c.WriteTimeoutSec
	}
	return 30
}

// IdleTimeout returns the effective idle timeout in seconds.
func (c *Config) IdleTimeout() int {
	if c.IdleTimeoutSec > 0 {
		return c.IdleTimeoutSec
	}
	return 60
}

// AllowsOrigin reports whether CORS requests from origin are permitted.
func (c *Config) AllowsOrigin(origin string) bool {
	for _, o := range c.CORSOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
