package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Layout   LayoutConfig   `yaml:"layout"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string   `yaml:"addr" validate:"required"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	CORSOrigin   string   `yaml:"cors_origin,omitempty"`
}

// UpstreamConfig points at the alert data service
type UpstreamConfig struct {
	BaseURL string   `yaml:"base_url" validate:"required,url"`
	Timeout Duration `yaml:"timeout"`
}

// LayoutConfig holds layout spacing
type LayoutConfig struct {
	RankSpacing  float64 `yaml:"rank_spacing" validate:"gt=0"`
	LayerSpacing float64 `yaml:"layer_spacing" validate:"gt=0"`
	LegacyOffset bool    `yaml:"legacy_offset"` // n*V/2 column offset instead of (n-1)*V/2
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
