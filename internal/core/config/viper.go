package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultServerConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.database_url", "sqlite://bidkeeper.db")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("server.forecast_days", 14)
	v.SetDefault("server.target_acos", 30.0)

	// Bind environment variables with BK_ prefix
	v.SetEnvPrefix("BK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &ServerConfig{
		Host:           v.GetString("server.host"),
		Port:           v.GetInt("server.port"),
		DatabaseURL:    v.GetString("server.database_url"),
		RequestTimeout: v.GetDuration("server.request_timeout"),
		LogLevel:       v.GetString("server.log_level"),
		RateLimitRPS:   v.GetFloat64("server.rate_limit_rps"),
		RateLimitBurst: v.GetInt("server.rate_limit_burst"),
		ForecastDays:   v.GetInt("server.forecast_days"),
		TargetACOS:     v.GetFloat64("server.target_acos"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeout,
// forecast horizon, and target ACOS.
func validateConfig(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("rate_limit_burst must be positive when limiting is enabled, got %d", cfg.RateLimitBurst)
	}
	if cfg.ForecastDays <= 0 {
		return fmt.Errorf("forecast_days must be positive, got %d", cfg.ForecastDays)
	}
	if cfg.TargetACOS <= 0 {
		return fmt.Errorf("target_acos must be positive, got %v", cfg.TargetACOS)
	}
	return nil
}
