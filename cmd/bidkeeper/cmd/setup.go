package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/adfuel/bidkeeper/internal/core/api"
	"github.com/adfuel/bidkeeper/internal/core/config"
	"github.com/adfuel/bidkeeper/internal/core/db"
	"github.com/adfuel/bidkeeper/internal/forecast"
	"github.com/adfuel/bidkeeper/pkg/logger"
	"github.com/adfuel/bidkeeper/pkg/metrics"
)

const Version = "0.1.0"

// loadConfig resolves configuration from file, environment, and the global
// CLI flags. Flags win over everything else.
func loadConfig() (*config.ServerConfig, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

// openDatabase opens the configured database connection.
func openDatabase(cfg *config.ServerConfig) (*sqlx.DB, error) {
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// buildService wires the store, forecaster, logger, and metrics into a
// ready service instance.
func buildService(cfg *config.ServerConfig, database *sqlx.DB, log *logger.Logger) (*api.Service, *metrics.Metrics, error) {
	store, err := db.NewStore(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}

	m := metrics.New()

	service, err := api.NewService(store, forecast.New(), cfg, log, m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	return service, m, nil
}
