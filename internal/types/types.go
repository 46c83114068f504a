// Package types provides domain models shared across BidKeeper components.
//
// Zero-dependency design: types.go, rules.go, and errors.go use only the
// standard library so the evaluation core stays importable without pulling
// in storage or transport dependencies. ID utilities in ids.go import uuid
// but are isolated for selective inclusion.
package types

import "time"

// MetricName identifies one of the fixed campaign performance metrics.
// String alias enables type safety while maintaining JSON string serialization.
type MetricName string

// The complete metric set. A well-formed MetricRecord carries all eight keys;
// a condition referencing an absent key fails closed rather than defaulting.
const (
	MetricSpend       MetricName = "spend"
	MetricSales       MetricName = "sales"
	MetricACOS        MetricName = "acos"
	MetricROAS        MetricName = "roas"
	MetricImpressions MetricName = "impressions"
	MetricClicks      MetricName = "clicks"
	MetricCTR         MetricName = "ctr"
	MetricCPC         MetricName = "cpc"
)

// MetricNames lists every known metric in canonical order.
// Used for record validation and deterministic iteration.
var MetricNames = []MetricName{
	MetricSpend,
	MetricSales,
	MetricACOS,
	MetricROAS,
	MetricImpressions,
	MetricClicks,
	MetricCTR,
	MetricCPC,
}

// KnownMetric reports whether name is one of the fixed metric set.
func KnownMetric(name MetricName) bool {
	for _, m := range MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// MetricRecord maps metric names to observed values for a single campaign.
// Values are period totals (spend, sales, impressions, clicks) or period
// ratios (acos, roas, ctr, cpc) as reported by the upstream ingestion layer.
type MetricRecord map[MetricName]float64

// Missing returns the metric names from the fixed set that are absent from
// the record, in canonical order. An empty result means the record is complete.
func (r MetricRecord) Missing() []MetricName {
	var missing []MetricName
	for _, m := range MetricNames {
		if _, ok := r[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}

// Campaign is an advertising campaign with its reported performance metrics.
// Budget doubles as the current bid proxy for recommendation math; the
// upstream CSV ingestion populates it from the campaign default bid.
type Campaign struct {
	CampaignID int64        `json:"id" db:"campaign_id"`
	Name       string       `json:"name" db:"name"`
	Budget     float64      `json:"budget" db:"budget"`
	Status     string       `json:"status" db:"status"`
	Metrics    MetricRecord `json:"metrics"`
}

// Recommendation is a bid change proposal produced by one (campaign, rule)
// match. Created fresh on every evaluation pass and never mutated; callers
// treat the recommendation log as append-only.
type Recommendation struct {
	RecommendationID int64     `json:"id" db:"recommendation_id"`
	CampaignID       int64     `json:"campaignId" db:"campaign_id"`
	RuleID           int64     `json:"ruleId" db:"rule_id"`
	OldBid           float64   `json:"oldBid" db:"old_bid"`
	NewBid           float64   `json:"newBid" db:"new_bid"`
	PauseCampaign    bool      `json:"pauseCampaign" db:"pause_campaign"`
	Justification    string    `json:"justification" db:"justification"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}
