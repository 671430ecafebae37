// Package config loads the advisor configuration.
//
// Sources, from lowest to highest priority:
//  1. Default values (in code)
//  2. YAML file (advisor.yaml, or the path given with --config)
//  3. ADVISOR_* environment variables, e.g. ADVISOR_STORE_REDIS_ADDR
//
// The merged result is validated before use.
package config

import (
	"time"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ADVISOR_"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "advisor.yaml"

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// LoadedFrom lists the sources that contributed, for diagnostics.
	LoadedFrom []string `yaml:"-" mapstructure:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

// DataConfig selects the brand datasets. An empty Dir uses the embedded samples.
type DataConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	Watch         bool   `yaml:"watch" mapstructure:"watch"`
	FallbackBrand string `yaml:"fallback_brand" mapstructure:"fallback_brand" validate:"omitempty,oneof=nutram britcare carnilove"`
	Translations  string `yaml:"translations" mapstructure:"translations"`
	Language      string `yaml:"language" mapstructure:"language" validate:"required"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects where sessions live.
type StoreConfig struct {
	Driver        string        `yaml:"driver" mapstructure:"driver" validate:"oneof=memory file redis"`
	Dir           string        `yaml:"dir" mapstructure:"dir" validate:"required_if=Driver file"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
	Locking       bool          `yaml:"locking" mapstructure:"locking"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Data: DataConfig{
			Language: "he",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0, // SSE streams stay open
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Driver: "memory",
			Dir:    ".advisor/sessions",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}
