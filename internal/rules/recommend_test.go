// internal/rules/recommend_test.go
package rules

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/adfuel/bidkeeper/internal/types"
)

func testCampaign(id int64, budget float64) types.Campaign {
	return types.Campaign{
		CampaignID: id,
		Name:       "Campaign A",
		Budget:     budget,
		Status:     "enabled",
		Metrics:    fullMetrics(),
	}
}

func TestBuildRecommendation_PercentDecrease(t *testing.T) {
	campaign := testCampaign(1, 1.00)
	rule := mustCompile(t, &types.Rule{
		RuleID:         10,
		Name:           "trim",
		Action:         types.ActionDecreaseBid,
		Adjustment:     10,
		AdjustmentMode: types.AdjustPercent,
		IsActive:       true,
	})

	rec, err := BuildRecommendation(&campaign, rule, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("BuildRecommendation() error = %v, want nil", err)
	}
	if math.Abs(rec.NewBid-0.90) > 1e-12 {
		t.Errorf("NewBid = %v, want 0.90", rec.NewBid)
	}
	if rec.OldBid != 1.00 {
		t.Errorf("OldBid = %v, want 1.00", rec.OldBid)
	}
	if rec.PauseCampaign {
		t.Errorf("PauseCampaign = true, want false for a bid change")
	}
}

func TestBuildRecommendation_FlatIncrease(t *testing.T) {
	campaign := testCampaign(1, 2.00)
	rule := mustCompile(t, &types.Rule{
		RuleID:     11,
		Name:       "boost",
		Action:     types.ActionIncreaseBid,
		Adjustment: 0.25,
		IsActive:   true,
	})

	rec, err := BuildRecommendation(&campaign, rule, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("BuildRecommendation() error = %v, want nil", err)
	}
	if math.Abs(rec.NewBid-2.25) > 1e-12 {
		t.Errorf("NewBid = %v, want 2.25", rec.NewBid)
	}
}

func TestBuildRecommendation_Pause(t *testing.T) {
	campaign := testCampaign(1, 2.00)
	rule := mustCompile(t, &types.Rule{
		RuleID:   12,
		Name:     "halt",
		Action:   types.ActionPauseCampaign,
		IsActive: true,
	})

	rec, err := BuildRecommendation(&campaign, rule, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("BuildRecommendation() error = %v, want nil", err)
	}
	if rec.NewBid != 0 {
		t.Errorf("NewBid = %v, want 0", rec.NewBid)
	}
	if !rec.PauseCampaign {
		t.Errorf("PauseCampaign = false, want true (status change, not a bid change)")
	}
}

func TestBuildRecommendation_UnknownAction(t *testing.T) {
	campaign := testCampaign(1, 2.00)
	rule := &CompiledRule{RuleID: 13, Name: "bad", Action: "archive_campaign"}

	_, err := BuildRecommendation(&campaign, rule, time.Unix(0, 0))
	if !errors.Is(err, types.ErrUnknownAction) {
		t.Fatalf("BuildRecommendation() error = %v, want ErrUnknownAction", err)
	}
}

func TestJustification_Deterministic(t *testing.T) {
	rule := mustCompile(t, &types.Rule{
		RuleID:         14,
		Name:           "High ACOS",
		Action:         types.ActionDecreaseBid,
		Adjustment:     5,
		AdjustmentMode: types.AdjustPercent,
		IsActive:       true,
	})

	first := Justification(rule)
	second := Justification(rule)
	if first != second {
		t.Fatalf("Justification not reproducible: %q vs %q", first, second)
	}
	want := `Rule "High ACOS" triggered. Action: decrease_bid, Adjustment: 5%`
	if first != want {
		t.Errorf("Justification = %q, want %q", first, want)
	}
}

func TestEvaluateAll_EndToEnd(t *testing.T) {
	// Campaign metrics {acos: 20}, rule AND[acos > 15], decrease 5%:
	// the rule fires and 2.00 becomes 1.90.
	campaign := types.Campaign{
		CampaignID: 1,
		Name:       "Campaign A",
		Budget:     2.00,
		Metrics: types.MetricRecord{
			types.MetricSpend:       100,
			types.MetricSales:       500,
			types.MetricClicks:      50,
			types.MetricImpressions: 1000,
			types.MetricACOS:        20,
			types.MetricROAS:        5,
			types.MetricCTR:         5,
			types.MetricCPC:         2,
		},
	}
	rule := types.Rule{
		RuleID:         1,
		Name:           "High ACOS",
		Action:         types.ActionDecreaseBid,
		Adjustment:     5,
		AdjustmentMode: types.AdjustPercent,
		IsActive:       true,
		Groups: []types.ConditionGroup{
			{
				Operator: types.GroupAnd,
				Conditions: []types.Condition{
					{Metric: types.MetricACOS, Operator: types.OpGreaterThan, Value: 15},
				},
			},
		},
	}

	recs, diags := EvaluateAll([]types.Campaign{campaign}, []types.Rule{rule}, time.Unix(0, 0))
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}
	if len(recs) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(recs))
	}
	if math.Abs(recs[0].NewBid-1.90) > 1e-12 {
		t.Errorf("NewBid = %v, want 1.90", recs[0].NewBid)
	}
}

func TestEvaluateAll_AllMatchingRulesReturned(t *testing.T) {
	// Two rules both match one campaign: no first-match cutoff.
	campaign := testCampaign(1, 2.00)
	group := []types.ConditionGroup{
		{
			Operator: types.GroupAnd,
			Conditions: []types.Condition{
				{Metric: types.MetricACOS, Operator: types.OpGreaterThan, Value: 1},
			},
		},
	}
	ruleSet := []types.Rule{
		{RuleID: 1, Name: "first", Action: types.ActionDecreaseBid, Adjustment: 0.1, IsActive: true, Priority: 90, Groups: group},
		{RuleID: 2, Name: "second", Action: types.ActionDecreaseBid, Adjustment: 0.2, IsActive: true, Priority: 10, Groups: group},
	}

	recs, _ := EvaluateAll([]types.Campaign{campaign}, ruleSet, time.Unix(0, 0))
	if len(recs) != 2 {
		t.Fatalf("recommendations = %d, want 2", len(recs))
	}
	if recs[0].RuleID != 1 || recs[1].RuleID != 2 {
		t.Errorf("rule order = %d,%d, want 1,2 (input order preserved)", recs[0].RuleID, recs[1].RuleID)
	}
}

func TestEvaluateAll_PartialFailure(t *testing.T) {
	// One malformed rule must not prevent recommendations from valid rules.
	campaign := testCampaign(1, 2.00)
	group := []types.ConditionGroup{
		{
			Operator: types.GroupAnd,
			Conditions: []types.Condition{
				{Metric: types.MetricACOS, Operator: types.OpGreaterThan, Value: 1},
			},
		},
	}
	ruleSet := []types.Rule{
		{RuleID: 1, Name: "broken", Action: "archive_campaign", IsActive: true, Groups: group},
		{RuleID: 2, Name: "valid", Action: types.ActionDecreaseBid, Adjustment: 0.1, IsActive: true, Groups: group},
	}

	recs, diags := EvaluateAll([]types.Campaign{campaign}, ruleSet, time.Unix(0, 0))
	if len(recs) != 1 || recs[0].RuleID != 2 {
		t.Fatalf("recommendations = %v, want one from rule 2", recs)
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(diags))
	}
	if !errors.Is(diags[0].Err, types.ErrUnknownAction) {
		t.Errorf("diagnostic error = %v, want ErrUnknownAction", diags[0].Err)
	}
	if diags[0].RuleID != 1 {
		t.Errorf("diagnostic RuleID = %d, want 1", diags[0].RuleID)
	}
}

func TestEvaluateAll_MissingMetricDiagnostic(t *testing.T) {
	campaign := testCampaign(1, 2.00)
	delete(campaign.Metrics, types.MetricCPC)

	ruleSet := []types.Rule{
		{
			RuleID: 1, Name: "cpc-watch", Action: types.ActionDecreaseBid,
			Adjustment: 0.1, IsActive: true,
			Groups: []types.ConditionGroup{
				{
					Operator: types.GroupAnd,
					Conditions: []types.Condition{
						{Metric: types.MetricCPC, Operator: types.OpGreaterThan, Value: 1},
					},
				},
			},
		},
	}

	recs, diags := EvaluateAll([]types.Campaign{campaign}, ruleSet, time.Unix(0, 0))
	if len(recs) != 0 {
		t.Fatalf("recommendations = %d, want 0", len(recs))
	}
	if len(diags) != 1 || !errors.Is(diags[0].Err, types.ErrMetricMissing) {
		t.Fatalf("diagnostics = %v, want one ErrMetricMissing", diags)
	}
	if diags[0].Metric != types.MetricCPC {
		t.Errorf("diagnostic metric = %q, want cpc", diags[0].Metric)
	}
}
