// Package config loads runtime configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort         string       `mapstructure:"HTTP_PORT" validate:"required"`
	ConsulAddr       string       `mapstructure:"CONSUL_ADDR"`
	PublishTimeoutMs int          `mapstructure:"PUBLISH_TIMEOUT_MS" validate:"gt=0"`
	FeedCapacity     int          `mapstructure:"FEED_CAPACITY" validate:"gt=0"`
	Broker           BrokerConfig `mapstructure:",squash"`
}

type BrokerConfig struct {
	Host     string `mapstructure:"RABBITMQ_HOST" validate:"required"`
	Port     int    `mapstructure:"RABBITMQ_PORT" validate:"gt=0"`
	User     string `mapstructure:"RABBITMQ_USER" validate:"required"`
	Password string `mapstructure:"RABBITMQ_PASSWORD" validate:"required"`
}

// Load reads configuration with sensible defaults. defaultHTTPPort differs
// per role so both binaries run side by side out of the box.
func Load(defaultHTTPPort string) (*Config, error) {
	viper.Reset()
	viper.SetConfigType("env")

	viper.SetDefault("HTTP_PORT", defaultHTTPPort)
	viper.SetDefault("RABBITMQ_HOST", "localhost")
	viper.SetDefault("RABBITMQ_PORT", 5672)
	viper.SetDefault("RABBITMQ_USER", "guest")
	viper.SetDefault("RABBITMQ_PASSWORD", "guest")
	viper.SetDefault("PUBLISH_TIMEOUT_MS", 5000)
	viper.SetDefault("FEED_CAPACITY", 200)

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		viper.SetConfigFile(envFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("⚠️ Could not read %s, continuing with env vars only: %v", envFile, err)
		}
	}

	viper.AutomaticEnv()
	for _, key := range []string{
		"HTTP_PORT", "CONSUL_ADDR", "PUBLISH_TIMEOUT_MS", "FEED_CAPACITY",
		"RABBITMQ_HOST", "RABBITMQ_PORT", "RABBITMQ_USER", "RABBITMQ_PASSWORD",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
