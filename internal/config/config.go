// Package config provides configuration management for alertgraph.
//
// Configuration is read from a single YAML file. Every field has a default,
// so running without a file is supported; command-line flags override the
// loaded values.
//
// Config file locations (priority order):
//  1. $ALERTGRAPH_CONFIG
//  2. ./alertgraph.yaml
//  3. $XDG_CONFIG_HOME/alertgraph/config.yaml
//  4. ~/.config/alertgraph/config.yaml
//  5. /etc/alertgraph/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults
const (
	DefaultAddr         = ":3000"
	DefaultUpstreamURL  = "http://127.0.0.1:5000"
	DefaultRankSpacing  = 200
	DefaultLayerSpacing = 100
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultUpstreamURL
	}
	c.Upstream.BaseURL = strings.TrimRight(c.Upstream.BaseURL, "/")
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = Duration(10 * time.Second)
	}
	if c.Layout.RankSpacing == 0 {
		c.Layout.RankSpacing = DefaultRankSpacing
	}
	if c.Layout.LayerSpacing == 0 {
		c.Layout.LayerSpacing = DefaultLayerSpacing
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Server: %s, Upstream: %s (timeout %s)\n",
		c.Server.Addr, c.Upstream.BaseURL, c.Upstream.Timeout.Duration())
	summary += fmt.Sprintf("Layout: rank spacing %g, layer spacing %g, legacy offset %v\n",
		c.Layout.RankSpacing, c.Layout.LayerSpacing, c.Layout.LegacyOffset)
	summary += fmt.Sprintf("Log: %s (%s)", c.Log.Level, c.Log.Format)
	return summary
}
