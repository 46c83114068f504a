// internal/forecast/bid.go
package forecast

import (
	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Target-ACOS bid prediction.
 *
 * Simpler sibling of the forecasting engine: proposes one bid that would
 * steer a campaign toward a target ACOS, scaled linearly from the current
 * effective bid and bounded to +/-50% of it. No model fitting; the
 * predicted outcome metrics are the assumed result of hitting the target,
 * not independently modeled.
 *
 * Confidence is a data-volume proxy - more clicks and sales mean the
 * underlying ACOS is less noisy - clamped to [0, 100]. It is a heuristic
 * score, not a probability.
 */

// DefaultTargetACOS is used when the caller passes a non-positive target.
const DefaultTargetACOS = 30

// Bid bounds relative to the current bid.
const (
	minBidFactor = 0.5
	maxBidFactor = 1.5
)

// PredictionMetrics are the assumed outcome metrics of hitting the target
// ACOS with the suggested bid.
type PredictionMetrics struct {
	PredictedACOS float64 `json:"predictedAcos"`
	PredictedROAS float64 `json:"predictedRoas"`
	PredictedCTR  float64 `json:"predictedCtr"`
}

// Prediction is an optimal-bid proposal for a single campaign.
type Prediction struct {
	CampaignID   int64             `json:"campaignId"`
	CurrentBid   float64           `json:"currentBid"`
	SuggestedBid float64           `json:"suggestedBid"`
	Confidence   float64           `json:"confidence"`
	Metrics      PredictionMetrics `json:"metrics"`
}

// PredictBid proposes a bid for the campaign aimed at targetACOS.
//
// The current bid is the observed cost per click (spend/clicks, 0 when the
// campaign has no clicks). With no historical ACOS there is nothing to
// scale against, so the suggestion equals the current bid. Otherwise the
// bid scales by targetACOS/historicalACOS, clamped to [0.5, 1.5] of the
// current bid.
func PredictBid(campaign *types.Campaign, targetACOS float64) Prediction {
	if targetACOS <= 0 {
		targetACOS = DefaultTargetACOS
	}

	m := campaign.Metrics
	currentBid := SafeDiv(m[types.MetricSpend], m[types.MetricClicks])
	historicalACOS := m[types.MetricACOS]

	suggestedBid := currentBid
	if historicalACOS != 0 {
		suggestedBid = clamp(currentBid*(targetACOS/historicalACOS),
			currentBid*minBidFactor, currentBid*maxBidFactor)
	}

	return Prediction{
		CampaignID:   campaign.CampaignID,
		CurrentBid:   currentBid,
		SuggestedBid: suggestedBid,
		Confidence:   confidence(m[types.MetricClicks], m[types.MetricSales]),
		Metrics: PredictionMetrics{
			PredictedACOS: targetACOS,
			PredictedROAS: 100 / targetACOS,
			PredictedCTR:  m[types.MetricCTR],
		},
	}
}

// confidence scores data volume on a 0-100 scale: clicks in hundreds times
// sales in tens. A heuristic, not a statistical confidence level.
func confidence(clicks, sales float64) float64 {
	score := (clicks / 100) * (sales / 10)
	return clamp(score, 0, 100)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
