// internal/forecast/bid_test.go
package forecast

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/adfuel/bidkeeper/internal/types"
)

func bidCampaign(spend, clicks, sales, acos, ctr float64) types.Campaign {
	return types.Campaign{
		CampaignID: 1,
		Metrics: types.MetricRecord{
			types.MetricSpend:  spend,
			types.MetricClicks: clicks,
			types.MetricSales:  sales,
			types.MetricACOS:   acos,
			types.MetricCTR:    ctr,
		},
	}
}

func TestPredictBid_ScalesTowardTarget(t *testing.T) {
	// Current bid 100/50 = 2.00, ACOS 40 vs target 30: scale by 0.75.
	campaign := bidCampaign(100, 50, 500, 40, 5)
	p := PredictBid(&campaign, 30)

	if math.Abs(p.CurrentBid-2.00) > 1e-12 {
		t.Errorf("CurrentBid = %v, want 2.00", p.CurrentBid)
	}
	if math.Abs(p.SuggestedBid-1.50) > 1e-12 {
		t.Errorf("SuggestedBid = %v, want 1.50", p.SuggestedBid)
	}
	if p.Metrics.PredictedACOS != 30 {
		t.Errorf("PredictedACOS = %v, want 30", p.Metrics.PredictedACOS)
	}
	if math.Abs(p.Metrics.PredictedROAS-100.0/30) > 1e-12 {
		t.Errorf("PredictedROAS = %v, want %v", p.Metrics.PredictedROAS, 100.0/30)
	}
	if p.Metrics.PredictedCTR != 5 {
		t.Errorf("PredictedCTR = %v, want unchanged historical 5", p.Metrics.PredictedCTR)
	}
}

func TestPredictBid_ZeroHistoricalACOS(t *testing.T) {
	campaign := bidCampaign(100, 50, 500, 0, 5)
	p := PredictBid(&campaign, 30)
	if p.SuggestedBid != p.CurrentBid {
		t.Errorf("SuggestedBid = %v, want CurrentBid %v when no historical ACOS", p.SuggestedBid, p.CurrentBid)
	}
}

func TestPredictBid_ZeroClicks(t *testing.T) {
	campaign := bidCampaign(100, 0, 500, 20, 5)
	p := PredictBid(&campaign, 30)
	if p.CurrentBid != 0 {
		t.Errorf("CurrentBid = %v, want 0 for zero clicks", p.CurrentBid)
	}
	if p.SuggestedBid != 0 {
		t.Errorf("SuggestedBid = %v, want 0 (clamped around a zero bid)", p.SuggestedBid)
	}
}

func TestPredictBid_ClampBounds(t *testing.T) {
	tests := []struct {
		name string
		acos float64
		want float64 // relative to current bid 2.00
	}{
		{name: "huge ACOS clamps to lower bound", acos: 900, want: 1.00},
		{name: "tiny ACOS clamps to upper bound", acos: 1, want: 3.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := bidCampaign(100, 50, 500, tt.acos, 5)
			p := PredictBid(&campaign, 30)
			if math.Abs(p.SuggestedBid-tt.want) > 1e-12 {
				t.Errorf("SuggestedBid = %v, want %v", p.SuggestedBid, tt.want)
			}
		})
	}
}

func TestPredictBid_NonPositiveTargetUsesDefault(t *testing.T) {
	campaign := bidCampaign(100, 50, 500, 40, 5)
	p := PredictBid(&campaign, 0)
	if p.Metrics.PredictedACOS != DefaultTargetACOS {
		t.Errorf("PredictedACOS = %v, want default %v", p.Metrics.PredictedACOS, DefaultTargetACOS)
	}
}

func TestPredictBid_ConfidenceHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		clicks float64
		sales  float64
		want   float64
	}{
		{name: "moderate volume", clicks: 200, sales: 100, want: 20},
		{name: "capped at 100", clicks: 10000, sales: 10000, want: 100},
		{name: "no data", clicks: 0, sales: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			campaign := bidCampaign(100, tt.clicks, tt.sales, 20, 5)
			p := PredictBid(&campaign, 30)
			if math.Abs(p.Confidence-tt.want) > 1e-9 {
				t.Errorf("Confidence = %v, want %v", p.Confidence, tt.want)
			}
		})
	}
}

// Property: the suggested bid always lies within [0.5, 1.5] of the current
// bid, and confidence stays within [0, 100], for arbitrary non-negative inputs.
func TestPredictBid_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("suggested bid within clamp bounds", prop.ForAll(
		func(spend, clicks, sales, acos, target float64) bool {
			campaign := bidCampaign(spend, clicks, sales, acos, 5)
			p := PredictBid(&campaign, target)
			lo := p.CurrentBid * minBidFactor
			hi := p.CurrentBid * maxBidFactor
			const tol = 1e-9
			return p.SuggestedBid >= lo-tol && p.SuggestedBid <= hi+tol
		},
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1e4),
		gen.Float64Range(0, 1e3),
	))

	properties.Property("confidence within [0, 100]", prop.ForAll(
		func(clicks, sales float64) bool {
			campaign := bidCampaign(100, clicks, sales, 20, 5)
			p := PredictBid(&campaign, 30)
			return p.Confidence >= 0 && p.Confidence <= 100
		},
		gen.Float64Range(0, 1e9),
		gen.Float64Range(0, 1e9),
	))

	properties.TestingRun(t)
}
