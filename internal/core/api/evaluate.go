package api

import (
	"context"
	"fmt"
	"time"

	"github.com/adfuel/bidkeeper/internal/rules"
	"github.com/adfuel/bidkeeper/internal/types"
)

// EvaluationReport summarizes one evaluation pass over all campaigns.
type EvaluationReport struct {
	RunID           types.RunID            `json:"runId"`
	StartedAt       time.Time              `json:"startedAt"`
	DurationMs      int64                  `json:"durationMs"`
	Campaigns       int                    `json:"campaigns"`
	Rules           int                    `json:"rules"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Diagnostics     []rules.Diagnostic     `json:"diagnostics,omitempty"`
	DryRun          bool                   `json:"dryRun"`
}

// RunEvaluation evaluates every active rule against every campaign and
// persists the resulting recommendations. With dryRun set the
// recommendations are computed and returned but not stored. Diagnostics are
// non-fatal: a rule that fails to compile or a campaign missing a metric is
// reported and skipped, never aborting the pass.
func (s *Service) RunEvaluation(ctx context.Context, dryRun bool) (*EvaluationReport, error) {
	runID := types.NewRunID()
	start := time.Now()

	log := s.log.WithContext(ctx).WithField("run_id", string(runID))

	campaigns, err := s.store.ListCampaigns(ctx)
	if err != nil {
		s.metrics.RecordEvaluationRun("error", time.Since(start), 0)
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}

	activeRules, err := s.store.ListActiveRules(ctx)
	if err != nil {
		s.metrics.RecordEvaluationRun("error", time.Since(start), 0)
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	recommendations, diagnostics := rules.EvaluateAll(campaigns, activeRules, start.UTC())

	for _, d := range diagnostics {
		s.metrics.RecordDiagnostic(diagnosticReason(d))
		log.WithFields(map[string]interface{}{
			"rule_id":     d.RuleID,
			"campaign_id": d.CampaignID,
			"metric":      d.Metric,
		}).Warn(d.Detail)
	}

	if !dryRun {
		recommendations, err = s.store.CreateRecommendations(ctx, recommendations)
		if err != nil {
			s.metrics.RecordEvaluationRun("error", time.Since(start), 0)
			return nil, fmt.Errorf("failed to persist recommendations: %w", err)
		}
	}

	duration := time.Since(start)
	s.metrics.RecordEvaluationRun("ok", duration, len(recommendations))

	log.WithFields(map[string]interface{}{
		"campaigns":       len(campaigns),
		"rules":           len(activeRules),
		"recommendations": len(recommendations),
		"diagnostics":     len(diagnostics),
		"duration_ms":     duration.Milliseconds(),
		"dry_run":         dryRun,
	}).Info("evaluation pass complete")

	return &EvaluationReport{
		RunID:           runID,
		StartedAt:       start.UTC(),
		DurationMs:      duration.Milliseconds(),
		Campaigns:       len(campaigns),
		Rules:           len(activeRules),
		Recommendations: recommendations,
		Diagnostics:     diagnostics,
		DryRun:          dryRun,
	}, nil
}

// validateRule runs a rule through the compiler, discarding the compiled
// form. Anything that passes here will evaluate without a compile error.
func validateRule(rule *types.Rule) error {
	_, err := rules.Compile(rule)
	return err
}

// mergeRuleUpdate returns the rule as it would look after the update, for
// pre-write validation.
func mergeRuleUpdate(rule types.Rule, update types.RuleUpdate) types.Rule {
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
	return rule
}

// diagnosticReason buckets a diagnostic for the metrics counter.
func diagnosticReason(d rules.Diagnostic) string {
	switch {
	case d.Err == nil:
		return "unknown"
	case d.Metric != "":
		return "missing_metric"
	default:
		return "invalid_rule"
	}
}
