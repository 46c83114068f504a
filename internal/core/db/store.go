/*
Package db provides persistence for campaigns, rules, and recommendations.

store.go maps between database rows and domain types. Metrics and condition
groups are stored as JSON text columns so the schema stays identical across
sqlite and postgres; timestamps are stored as RFC3339 text for the same
reason.
*/
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/adfuel/bidkeeper/internal/types"
)

// Store exposes typed access to the campaign, rule, and recommendation
// tables on top of the named query layer.
type Store struct {
	db      *sqlx.DB
	queries *Queries
}

// NewStore loads the embedded named queries and returns a Store.
func NewStore(db *sqlx.DB) (*Store, error) {
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, queries: queries}, nil
}

// campaignRow is the database representation of a campaign. Metrics are a
// JSON object keyed by metric name.
type campaignRow struct {
	CampaignID int64   `db:"campaign_id"`
	Name       string  `db:"name"`
	Budget     float64 `db:"budget"`
	Status     string  `db:"status"`
	Metrics    []byte  `db:"metrics"`
}

func (r campaignRow) toCampaign() (types.Campaign, error) {
	campaign := types.Campaign{
		CampaignID: r.CampaignID,
		Name:       r.Name,
		Budget:     r.Budget,
		Status:     r.Status,
	}
	if len(r.Metrics) > 0 {
		if err := json.Unmarshal(r.Metrics, &campaign.Metrics); err != nil {
			return types.Campaign{}, fmt.Errorf("failed to decode metrics for campaign %d: %w", r.CampaignID, err)
		}
	}
	return campaign, nil
}

// ruleRow is the database representation of a rule. Conditions hold the
// JSON-encoded condition groups.
type ruleRow struct {
	RuleID         int64   `db:"rule_id"`
	Name           string  `db:"name"`
	Description    string  `db:"description"`
	Conditions     []byte  `db:"conditions"`
	Action         string  `db:"action"`
	Adjustment     float64 `db:"adjustment"`
	AdjustmentMode string  `db:"adjustment_mode"`
	Priority       int     `db:"priority"`
	IsActive       bool    `db:"is_active"`
}

func (r ruleRow) toRule() (types.Rule, error) {
	rule := types.Rule{
		RuleID:         r.RuleID,
		Name:           r.Name,
		Description:    r.Description,
		Action:         types.Action(r.Action),
		Adjustment:     r.Adjustment,
		AdjustmentMode: types.AdjustmentMode(r.AdjustmentMode),
		Priority:       r.Priority,
		IsActive:       r.IsActive,
	}
	if len(r.Conditions) > 0 {
		if err := json.Unmarshal(r.Conditions, &rule.Groups); err != nil {
			return types.Rule{}, fmt.Errorf("failed to decode conditions for rule %d: %w", r.RuleID, err)
		}
	}
	return rule, nil
}

// recommendationRow is the database representation of a recommendation.
// CreatedAt is RFC3339 text for cross-driver portability.
type recommendationRow struct {
	RecommendationID int64   `db:"recommendation_id"`
	CampaignID       int64   `db:"campaign_id"`
	RuleID           int64   `db:"rule_id"`
	OldBid           float64 `db:"old_bid"`
	NewBid           float64 `db:"new_bid"`
	PauseCampaign    bool    `db:"pause_campaign"`
	Justification    string  `db:"justification"`
	CreatedAt        string  `db:"created_at"`
}

func (r recommendationRow) toRecommendation() (types.Recommendation, error) {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("failed to parse created_at for recommendation %d: %w", r.RecommendationID, err)
	}
	return types.Recommendation{
		RecommendationID: r.RecommendationID,
		CampaignID:       r.CampaignID,
		RuleID:           r.RuleID,
		OldBid:           r.OldBid,
		NewBid:           r.NewBid,
		PauseCampaign:    r.PauseCampaign,
		Justification:    r.Justification,
		CreatedAt:        createdAt,
	}, nil
}

// CreateCampaign inserts a campaign and returns it with the assigned ID.
func (s *Store) CreateCampaign(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	metrics, err := json.Marshal(campaign.Metrics)
	if err != nil {
		return types.Campaign{}, fmt.Errorf("failed to encode metrics: %w", err)
	}

	var id int64
	if err := s.queries.Get(ctx, "create-campaign", &id,
		campaign.Name, campaign.Budget, campaign.Status, metrics,
	); err != nil {
		return types.Campaign{}, fmt.Errorf("failed to insert campaign: %w", err)
	}

	campaign.CampaignID = id
	return campaign, nil
}

// GetCampaign fetches a single campaign by ID.
// Returns types.ErrCampaignNotFound if no such campaign exists.
func (s *Store) GetCampaign(ctx context.Context, campaignID int64) (types.Campaign, error) {
	var row campaignRow
	if err := s.queries.Get(ctx, "get-campaign", &row, campaignID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Campaign{}, types.ErrCampaignNotFound
		}
		return types.Campaign{}, fmt.Errorf("failed to query campaign %d: %w", campaignID, err)
	}
	return row.toCampaign()
}

// ListCampaigns returns all campaigns ordered by ID.
func (s *Store) ListCampaigns(ctx context.Context) ([]types.Campaign, error) {
	var rows []campaignRow
	if err := s.queries.Select(ctx, "list-campaigns", &rows); err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}

	campaigns := make([]types.Campaign, 0, len(rows))
	for _, row := range rows {
		campaign, err := row.toCampaign()
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

// CreateRule inserts a rule and returns it with the assigned ID.
func (s *Store) CreateRule(ctx context.Context, rule types.Rule) (types.Rule, error) {
	conditions, err := json.Marshal(rule.Groups)
	if err != nil {
		return types.Rule{}, fmt.Errorf("failed to encode conditions: %w", err)
	}

	var id int64
	if err := s.queries.Get(ctx, "create-rule", &id,
		rule.Name, rule.Description, conditions, string(rule.Action),
		rule.Adjustment, string(rule.AdjustmentMode), rule.Priority, rule.IsActive,
	); err != nil {
		return types.Rule{}, fmt.Errorf("failed to insert rule: %w", err)
	}

	rule.RuleID = id
	return rule, nil
}

// GetRule fetches a single rule by ID.
// Returns types.ErrRuleNotFound if no such rule exists.
func (s *Store) GetRule(ctx context.Context, ruleID int64) (types.Rule, error) {
	var row ruleRow
	if err := s.queries.Get(ctx, "get-rule", &row, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Rule{}, types.ErrRuleNotFound
		}
		return types.Rule{}, fmt.Errorf("failed to query rule %d: %w", ruleID, err)
	}
	return row.toRule()
}

// ListRules returns all rules ordered by priority (highest first).
func (s *Store) ListRules(ctx context.Context) ([]types.Rule, error) {
	return s.listRules(ctx, "list-rules")
}

// ListActiveRules returns only active rules ordered by priority (highest first).
func (s *Store) ListActiveRules(ctx context.Context) ([]types.Rule, error) {
	return s.listRules(ctx, "list-active-rules")
}

func (s *Store) listRules(ctx context.Context, queryName string) ([]types.Rule, error) {
	var rows []ruleRow
	if err := s.queries.Select(ctx, queryName, &rows); err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}

	rules := make([]types.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := row.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// UpdateRule applies a field-level update to an existing rule and returns the
// updated rule. Only fields set on the update are changed; the rest keep
// their stored values.
func (s *Store) UpdateRule(ctx context.Context, ruleID int64, update types.RuleUpdate) (types.Rule, error) {
	rule, err := s.GetRule(ctx, ruleID)
	if err != nil {
		return types.Rule{}, err
	}

	if update.Name != nil {
		rule.Name = *update.Name
	}
	if update.Description != nil {
		rule.Description = *update.Description
	}
	if update.Groups != nil {
		rule.Groups = *update.Groups
	}
	if update.Action != nil {
		rule.Action = *update.Action
	}
	if update.Adjustment != nil {
		rule.Adjustment = *update.Adjustment
	}
	if update.AdjustmentMode != nil {
		rule.AdjustmentMode = *update.AdjustmentMode
	}
	if update.Priority != nil {
		rule.Priority = *update.Priority
	}
	if update.IsActive != nil {
		rule.IsActive = *update.IsActive
	}

	conditions, err := json.Marshal(rule.Groups)
	if err != nil {
		return types.Rule{}, fmt.Errorf("failed to encode conditions: %w", err)
	}

	if _, err := s.queries.Exec(ctx, "update-rule",
		rule.Name, rule.Description, conditions, string(rule.Action),
		rule.Adjustment, string(rule.AdjustmentMode), rule.Priority, rule.IsActive,
		ruleID,
	); err != nil {
		return types.Rule{}, fmt.Errorf("failed to update rule %d: %w", ruleID, err)
	}

	return rule, nil
}

// CreateRecommendations inserts a batch of recommendations in a single
// transaction and returns them with assigned IDs. An empty batch is a no-op.
func (s *Store) CreateRecommendations(ctx context.Context, recommendations []types.Recommendation) ([]types.Recommendation, error) {
	if len(recommendations) == 0 {
		return nil, nil
	}

	query, err := s.queries.dot.Raw("create-recommendation")
	if err != nil {
		return nil, fmt.Errorf("query not found: create-recommendation")
	}
	query = s.db.Rebind(query)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	inserted := make([]types.Recommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		var id int64
		err := tx.GetContext(ctx, &id, query,
			rec.CampaignID, rec.RuleID, rec.OldBid, rec.NewBid,
			rec.PauseCampaign, rec.Justification, rec.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert recommendation for campaign %d: %w", rec.CampaignID, err)
		}
		rec.RecommendationID = id
		inserted = append(inserted, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recommendations: %w", err)
	}

	return inserted, nil
}

// ListRecommendations returns all recommendations, newest first.
func (s *Store) ListRecommendations(ctx context.Context) ([]types.Recommendation, error) {
	var rows []recommendationRow
	if err := s.queries.Select(ctx, "list-recommendations", &rows); err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}

	recommendations := make([]types.Recommendation, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecommendation()
		if err != nil {
			return nil, err
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, nil
}
