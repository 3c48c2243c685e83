// Package config loads service configuration from an optional YAML
// file with environment overrides, prefixed FOURHYBD_.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Port string `mapstructure:"port"`

	MessageServiceURL string `mapstructure:"message_service_url"`
	StoryServiceURL   string `mapstructure:"story_service_url"`
	UserServiceURL    string `mapstructure:"user_service_url"`

	DBPath string `mapstructure:"db_path"`

	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`

	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Environment  string `mapstructure:"environment"`
	Debug        bool   `mapstructure:"debug"`

	MaxDistanceKm          float64 `mapstructure:"max_distance_km"`
	PositionTimeoutSeconds int     `mapstructure:"position_timeout_seconds"`

	// DevicePosition pins the observer position to "lat,lng". Empty
	// means no device position source is available.
	DevicePosition string `mapstructure:"device_position"`

	// Derived.
	PositionTimeout time.Duration `mapstructure:"-"`
}

// Load reads configuration from the given file (optional) and the
// environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOURHYBD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8083")
	v.SetDefault("message_service_url", "http://localhost:8081")
	v.SetDefault("story_service_url", "http://localhost:8082")
	v.SetDefault("user_service_url", "http://localhost:8080")
	v.SetDefault("db_path", "4hybd.db")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "snap_events")
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("environment", "dev")
	v.SetDefault("debug", false)
	v.SetDefault("max_distance_km", 10.0)
	v.SetDefault("position_timeout_seconds", 10)
	v.SetDefault("device_position", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.PositionTimeoutSeconds <= 0 {
		cfg.PositionTimeoutSeconds = 10
	}
	cfg.PositionTimeout = time.Duration(cfg.PositionTimeoutSeconds) * time.Second
	return &cfg, nil
}
