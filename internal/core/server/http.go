// Package server provides HTTP server lifecycle management and routing.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adfuel/bidkeeper/internal/core/api"
	"github.com/adfuel/bidkeeper/internal/core/config"
	"github.com/adfuel/bidkeeper/pkg/logger"
	"github.com/adfuel/bidkeeper/pkg/metrics"
)

// HTTPServer manages the HTTP server lifecycle.
type HTTPServer struct {
	server  *http.Server
	service *api.Service
	config  *config.ServerConfig
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewHTTPServer creates the server with middleware and routes registered.
func NewHTTPServer(cfg *config.ServerConfig, service *api.Service, log *logger.Logger, m *metrics.Metrics) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("log cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}

	s := &HTTPServer{
		service: service,
		config:  cfg,
		log:     log,
		metrics: m,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	return s, nil
}

// routes builds the router with the full middleware chain.
func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.rateLimitMiddleware())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", s.handleListCampaigns)
			r.Post("/", s.handleCreateCampaign)
			r.Get("/bulk-bid-predictions", s.handleBulkBidPredictions)
			r.Get("/{campaignID}", s.handleGetCampaign)
			r.Get("/{campaignID}/forecast", s.handleForecast)
			r.Get("/{campaignID}/bid-prediction", s.handleBidPrediction)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.handleListRules)
			r.Post("/", s.handleCreateRule)
			r.Get("/{ruleID}", s.handleGetRule)
			r.Patch("/{ruleID}", s.handleUpdateRule)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/", s.handleListRecommendations)
			r.Post("/generate", s.handleGenerateRecommendations)
		})
	})

	return r
}

// Start binds the listener and serves requests. Blocks until Shutdown is
// called or the listener fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.log.WithContext(ctx).WithField("addr", s.server.Addr).Info("http server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests with a 30-second ceiling.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
