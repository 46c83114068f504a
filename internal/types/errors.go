package types

import "errors"

// Sentinel errors for BidKeeper operations.
var (
	// ErrMetricMissing indicates a condition references a metric absent from
	// the record. The condition fails closed; evaluation continues.
	ErrMetricMissing = errors.New("metric not present in record")

	// ErrUnknownMetric indicates a condition names a metric outside the
	// fixed metric set.
	ErrUnknownMetric = errors.New("unknown metric name")

	// ErrUnknownOperator indicates a condition carries an unrecognized
	// comparison operator.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownGroupOperator indicates a condition group combinator other
	// than AND or OR.
	ErrUnknownGroupOperator = errors.New("unknown group operator")

	// ErrUnknownAction indicates a rule action outside the enumerated set.
	ErrUnknownAction = errors.New("unknown rule action")

	// ErrUnknownAdjustmentMode indicates an adjustment mode other than
	// flat or percent.
	ErrUnknownAdjustmentMode = errors.New("unknown adjustment mode")

	// ErrUnknownTimeframe indicates a condition timeframe outside the
	// enumerated set.
	ErrUnknownTimeframe = errors.New("unknown condition timeframe")

	// ErrPriorityOutOfRange indicates a rule priority outside [0, 100].
	ErrPriorityOutOfRange = errors.New("rule priority must be between 0 and 100")

	// ErrCampaignNotFound indicates a campaign id with no stored campaign.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrRuleNotFound indicates a rule id with no stored rule.
	ErrRuleNotFound = errors.New("rule not found")
)
