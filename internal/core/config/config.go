// Package config provides configuration management for BidKeeper services.
package config

import "time"

// ServerConfig holds configuration for the HTTP API service.
type ServerConfig struct {
	Host           string
	Port           int
	DatabaseURL    string
	RequestTimeout time.Duration
	LogLevel       string

	// RateLimitRPS and RateLimitBurst bound per-client request rates on
	// the API. Zero RPS disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// ForecastDays is the default forecast horizon when a request does not
	// specify one. TargetACOS is the default bid-prediction target.
	ForecastDays int
	TargetACOS   float64
}

// DefaultServerConfig returns configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		DatabaseURL:    "sqlite://bidkeeper.db",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		ForecastDays:   14,
		TargetACOS:     30,
	}
}
