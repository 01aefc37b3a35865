package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Shopify  ShopifyConfig  `mapstructure:"shopify"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// ShopifyConfig holds platform API configuration
type ShopifyConfig struct {
	APIVersion           string `mapstructure:"api_version"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	Database    int    `mapstructure:"database"`
	EventStream string `mapstructure:"event_stream"`
}

// BillingConfig holds entitlement-cache tuning
type BillingConfig struct {
	EntitlementTTL int `mapstructure:"entitlement_ttl"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")

	viper.SetDefault("shopify.api_version", "2024-10")
	viper.SetDefault("shopify.timeout", 30)
	viper.SetDefault("shopify.max_requests_per_second", 2)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "convertforge")
	viper.SetDefault("database.user", "convertforge_user")
	viper.SetDefault("database.password", "convertforge_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.event_stream", "convertforge:events")

	viper.SetDefault("billing.entitlement_ttl", 300)
}
