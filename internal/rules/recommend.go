// internal/rules/recommend.go
package rules

import (
	"fmt"
	"strconv"
	"time"

	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Recommendation construction and batch evaluation.
 *
 * BuildRecommendation turns one triggered (campaign, rule) pair into a
 * bid change proposal. EvaluateAll runs the full campaign set against the
 * full rule set and collects recommendations plus per-rule diagnostics.
 *
 * Bid math by action:
 *   - increase_bid: flat adds the adjustment, percent scales up by it
 *   - decrease_bid: flat subtracts, percent scales down
 *   - pause_campaign: bid 0 with the pause flag set; the flag, not the
 *     zero bid, is what downstream consumers act on
 *
 * Justification text is a pure function of (rule name, action, adjustment)
 * so identical inputs always reproduce the same string; only CreatedAt
 * varies between passes.
 *
 * Batch semantics: campaigns outer, rules inner. Every matching rule for a
 * campaign yields a recommendation - evaluation does not stop at the first
 * match, priority is exposed for downstream tie-breaking, not enforced
 * here. A rule that fails to compile is skipped with a diagnostic and the
 * rest of the batch proceeds.
 */

// Diagnostic reports a non-fatal problem encountered during a batch pass.
// CampaignID is zero when the problem is rule-level rather than per-campaign.
type Diagnostic struct {
	RuleID     int64            `json:"ruleId"`
	CampaignID int64            `json:"campaignId,omitempty"`
	Metric     types.MetricName `json:"metric,omitempty"`
	Err        error            `json:"-"`
	Detail     string           `json:"detail"`
}

// BuildRecommendation computes the bid change for a triggered rule.
// The caller is responsible for persistence; this only constructs the value.
// Returns ErrUnknownAction for actions outside the enumerated set, though
// compilation normally rejects those before evaluation starts.
func BuildRecommendation(campaign *types.Campaign, rule *CompiledRule, now time.Time) (types.Recommendation, error) {
	oldBid := campaign.Budget
	rec := types.Recommendation{
		CampaignID:    campaign.CampaignID,
		RuleID:        rule.RuleID,
		OldBid:        oldBid,
		Justification: Justification(rule),
		CreatedAt:     now,
	}

	switch rule.Action {
	case types.ActionIncreaseBid:
		if rule.AdjustmentMode == types.AdjustPercent {
			rec.NewBid = oldBid * (1 + rule.Adjustment/100)
		} else {
			rec.NewBid = oldBid + rule.Adjustment
		}
	case types.ActionDecreaseBid:
		if rule.AdjustmentMode == types.AdjustPercent {
			rec.NewBid = oldBid * (1 - rule.Adjustment/100)
		} else {
			rec.NewBid = oldBid - rule.Adjustment
		}
	case types.ActionPauseCampaign:
		rec.NewBid = 0
		rec.PauseCampaign = true
	default:
		return types.Recommendation{}, fmt.Errorf("action %q: %w", rule.Action, types.ErrUnknownAction)
	}

	return rec, nil
}

// Justification renders the deterministic explanation for a triggered rule.
// Reproducible from the same (name, action, adjustment) triple.
func Justification(rule *CompiledRule) string {
	if rule.Action == types.ActionPauseCampaign {
		return fmt.Sprintf("Rule %q triggered. Action: %s", rule.Name, rule.Action)
	}
	return fmt.Sprintf("Rule %q triggered. Action: %s, Adjustment: %s",
		rule.Name, rule.Action, formatAdjustment(rule.Adjustment, rule.AdjustmentMode))
}

// formatAdjustment renders the magnitude with its mode suffix.
func formatAdjustment(adjustment float64, mode types.AdjustmentMode) string {
	s := strconv.FormatFloat(adjustment, 'f', -1, 64)
	if mode == types.AdjustPercent {
		return s + "%"
	}
	return s
}

// EvaluateAll evaluates every campaign against every rule and returns the
// recommendations for all matches, in campaign-then-rule order as given.
// Callers wanting priority ordering pass rules pre-sorted; the evaluator
// preserves input order.
//
// Partial-failure tolerant: malformed rules and missing metrics produce
// diagnostics, never abort the batch. All recommendations in one pass
// share the same timestamp.
func EvaluateAll(campaigns []types.Campaign, ruleSet []types.Rule, now time.Time) ([]types.Recommendation, []Diagnostic) {
	var diags []Diagnostic

	// Compile once per rule, not per (campaign, rule) pair.
	compiled := make([]*CompiledRule, 0, len(ruleSet))
	for i := range ruleSet {
		cr, err := Compile(&ruleSet[i])
		if err != nil {
			diags = append(diags, Diagnostic{
				RuleID: ruleSet[i].RuleID,
				Err:    err,
				Detail: fmt.Sprintf("rule %d skipped: %v", ruleSet[i].RuleID, err),
			})
			continue
		}
		compiled = append(compiled, cr)
	}

	var recs []types.Recommendation
	for ci := range campaigns {
		campaign := &campaigns[ci]
		for _, rule := range compiled {
			outcome := Evaluate(rule, campaign.Metrics)
			for _, m := range outcome.MissingMetrics {
				diags = append(diags, Diagnostic{
					RuleID:     rule.RuleID,
					CampaignID: campaign.CampaignID,
					Metric:     m,
					Err:        types.ErrMetricMissing,
					Detail:     fmt.Sprintf("metric %q not present in campaign %d metrics", m, campaign.CampaignID),
				})
			}
			if !outcome.Triggered {
				continue
			}

			rec, err := BuildRecommendation(campaign, rule, now)
			if err != nil {
				diags = append(diags, Diagnostic{
					RuleID:     rule.RuleID,
					CampaignID: campaign.CampaignID,
					Err:        err,
					Detail:     fmt.Sprintf("recommendation for campaign %d skipped: %v", campaign.CampaignID, err),
				})
				continue
			}
			recs = append(recs, rec)
		}
	}

	return recs, diags
}
