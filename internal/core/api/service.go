/*
Package api implements the application service behind the HTTP transport and
the CLI. It orchestrates the storage layer, the rule evaluation engine, and
the forecasting package; it owns no business logic of its own.
*/
package api

import (
	"context"
	"fmt"

	"github.com/adfuel/bidkeeper/internal/core/config"
	"github.com/adfuel/bidkeeper/internal/forecast"
	"github.com/adfuel/bidkeeper/internal/types"
	"github.com/adfuel/bidkeeper/pkg/logger"
	"github.com/adfuel/bidkeeper/pkg/metrics"
)

// Store is the persistence surface the service depends on. Satisfied by
// *db.Store; narrowed to an interface so service tests can run against an
// in-memory implementation.
type Store interface {
	CreateCampaign(ctx context.Context, campaign types.Campaign) (types.Campaign, error)
	GetCampaign(ctx context.Context, campaignID int64) (types.Campaign, error)
	ListCampaigns(ctx context.Context) ([]types.Campaign, error)

	CreateRule(ctx context.Context, rule types.Rule) (types.Rule, error)
	GetRule(ctx context.Context, ruleID int64) (types.Rule, error)
	ListRules(ctx context.Context) ([]types.Rule, error)
	ListActiveRules(ctx context.Context) ([]types.Rule, error)
	UpdateRule(ctx context.Context, ruleID int64, update types.RuleUpdate) (types.Rule, error)

	CreateRecommendations(ctx context.Context, recommendations []types.Recommendation) ([]types.Recommendation, error)
	ListRecommendations(ctx context.Context) ([]types.Recommendation, error)
}

// Service is the orchestration layer for campaigns, rules, evaluation
// passes, forecasts, and bid predictions.
type Service struct {
	store      Store
	forecaster *forecast.Forecaster
	cfg        *config.ServerConfig
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewService creates a service instance with its dependencies.
func NewService(store Store, forecaster *forecast.Forecaster, cfg *config.ServerConfig, log *logger.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if forecaster == nil {
		return nil, fmt.Errorf("forecaster cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("log cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics cannot be nil")
	}

	return &Service{
		store:      store,
		forecaster: forecaster,
		cfg:        cfg,
		log:        log,
		metrics:    m,
	}, nil
}

// CreateCampaign stores a new campaign. Unknown metric keys are rejected so
// typos surface at write time instead of silently never matching rules.
func (s *Service) CreateCampaign(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	for name := range campaign.Metrics {
		if !types.KnownMetric(name) {
			return types.Campaign{}, fmt.Errorf("metric %q: %w", name, types.ErrUnknownMetric)
		}
	}
	if missing := campaign.Metrics.Missing(); len(missing) > 0 {
		s.log.WithContext(ctx).WithField("missing_metrics", missing).
			Warn("campaign created with incomplete metrics; conditions on absent metrics will not trigger")
	}
	if campaign.Status == "" {
		campaign.Status = "active"
	}
	return s.store.CreateCampaign(ctx, campaign)
}

// GetCampaign fetches a campaign by ID.
func (s *Service) GetCampaign(ctx context.Context, campaignID int64) (types.Campaign, error) {
	return s.store.GetCampaign(ctx, campaignID)
}

// ListCampaigns returns all campaigns.
func (s *Service) ListCampaigns(ctx context.Context) ([]types.Campaign, error) {
	return s.store.ListCampaigns(ctx)
}

// CreateRule validates and stores a new rule. Validation runs through the
// rule compiler so anything accepted here is guaranteed to evaluate later.
func (s *Service) CreateRule(ctx context.Context, rule types.Rule) (types.Rule, error) {
	if err := validateRule(&rule); err != nil {
		return types.Rule{}, err
	}
	return s.store.CreateRule(ctx, rule)
}

// GetRule fetches a rule by ID.
func (s *Service) GetRule(ctx context.Context, ruleID int64) (types.Rule, error) {
	return s.store.GetRule(ctx, ruleID)
}

// ListRules returns all rules ordered by priority.
func (s *Service) ListRules(ctx context.Context) ([]types.Rule, error) {
	return s.store.ListRules(ctx)
}

// UpdateRule applies a field-level update, re-validating the merged rule
// before it is written back.
func (s *Service) UpdateRule(ctx context.Context, ruleID int64, update types.RuleUpdate) (types.Rule, error) {
	current, err := s.store.GetRule(ctx, ruleID)
	if err != nil {
		return types.Rule{}, err
	}

	merged := mergeRuleUpdate(current, update)
	if err := validateRule(&merged); err != nil {
		return types.Rule{}, err
	}

	return s.store.UpdateRule(ctx, ruleID, update)
}

// ListRecommendations returns all stored recommendations, newest first.
func (s *Service) ListRecommendations(ctx context.Context) ([]types.Recommendation, error) {
	return s.store.ListRecommendations(ctx)
}
