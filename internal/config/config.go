// Package config loads application configuration and sets up logging.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places   PlacesConfig   `yaml:"places" mapstructure:"places"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Outreach OutreachConfig `yaml:"outreach" mapstructure:"outreach"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Places API credentials and endpoint settings.
type PlacesConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig configures lead discovery: the geographic bias applied to
// every query and the pacing between continuation pages.
type SearchConfig struct {
	BiasLat       float64 `yaml:"bias_lat" mapstructure:"bias_lat"`
	BiasLng       float64 `yaml:"bias_lng" mapstructure:"bias_lng"`
	RadiusMeters  int     `yaml:"radius_meters" mapstructure:"radius_meters"`
	PageDelaySecs int     `yaml:"page_delay_secs" mapstructure:"page_delay_secs"`
}

// PageDelay returns the continuation pacing as a duration.
func (c SearchConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySecs) * time.Second
}

// OutreachConfig configures WhatsApp outreach defaults.
type OutreachConfig struct {
	DefaultMessage string `yaml:"default_message" mapstructure:"default_message"`
}

// StoreConfig configures the pipeline database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults: Colombo-centered bias, the service's documented two-second
	// continuation pause, local sqlite pipeline store.
	v.SetDefault("search.bias_lat", 6.9271)
	v.SetDefault("search.bias_lng", 79.8612)
	v.SetDefault("search.radius_meters", 50000)
	v.SetDefault("search.page_delay_secs", 2)
	v.SetDefault("outreach.default_message", "Hello! I noticed your business doesn't have a website yet. We build affordable websites for local businesses. Interested?")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscout.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
