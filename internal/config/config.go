package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Vidgram-Market/service-pricing/internal/platform/config"
)

// ServiceConfig holds all configuration for the pricing service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig
	QuoteTTL    time.Duration
}

// Load reads configuration from environment variables and returns a ServiceConfig.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("pricing")
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		QuoteTTL:    loadQuoteTTL(v),
	}, nil
}

// loadQuoteTTL reads QUOTE_TTL_MINUTES, defaulting to 15 minutes.
func loadQuoteTTL(v *viper.Viper) time.Duration {
	minutes := v.GetInt("QUOTE_TTL_MINUTES")
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}
