package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Gateway GatewayConfig `mapstructure:"gateway"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// CacheConfig holds settings for the decoded-metadata cache.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// GatewayConfig holds the JSON-RPC gateway endpoints and check settings.
type GatewayConfig struct {
	URLs          []string      `mapstructure:"urls"`
	CallTimeout   time.Duration `mapstructure:"call_timeout"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	CheckTimeout  time.Duration `mapstructure:"check_timeout"`
	RunOnStartup  bool          `mapstructure:"run_on_startup"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "tokengallery")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("cache.default_expiration", "30m")
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("gateway.urls", []string{"https://starknet-mainnet.public.blastapi.io/rpc/v0_7"})
	v.SetDefault("gateway.call_timeout", "10s")
	v.SetDefault("gateway.check_interval", "15m")
	v.SetDefault("gateway.check_timeout", "5s")
	v.SetDefault("gateway.run_on_startup", true)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
		}
	}

	v.SetEnvPrefix("TOKENGALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c CacheConfig) GetTTL() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

func (c GatewayConfig) GetCallTimeout() time.Duration {
	return c.CallTimeout
}

func (c GatewayConfig) GetCheckInterval() time.Duration {
	return c.CheckInterval
}

func (c GatewayConfig) GetCheckTimeout() time.Duration {
	return c.CheckTimeout
}
