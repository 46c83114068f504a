// internal/types/rules.go
package types

/*
 * Domain types for rule evaluation.
 *
 * Provides Rule, ConditionGroup, and Condition structures used by
 * internal/rules for compilation and evaluation. These types are
 * wire-format agnostic; JSON conveys the same shapes over HTTP and in
 * the rules table's conditions column.
 *
 * Key types:
 *   - Rule: complete rule definition (groups OR-ed, action, adjustment)
 *   - ConditionGroup: conditions combined with the group's own AND/OR
 *   - Condition: single metric comparison
 *
 * A rule fires when at least one of its groups evaluates true. Each group
 * applies its own operator internally, but the cross-group combination is
 * always OR regardless.
 */

// Operator is a comparison applied to one metric value.
type Operator string

const (
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpEqualTo     Operator = "equal_to"
	OpNotEqualTo  Operator = "not_equal_to"
	OpBetween     Operator = "between"
)

// GroupOperator combines the conditions inside a single group.
type GroupOperator string

const (
	GroupAnd GroupOperator = "AND"
	GroupOr  GroupOperator = "OR"
)

// Action is what a triggered rule asks the caller to do with the campaign.
type Action string

const (
	ActionIncreaseBid   Action = "increase_bid"
	ActionDecreaseBid   Action = "decrease_bid"
	ActionPauseCampaign Action = "pause_campaign"
)

// AdjustmentMode selects how a rule's adjustment value is applied to the bid.
type AdjustmentMode string

const (
	// AdjustFlat adds or subtracts the adjustment as an absolute amount.
	AdjustFlat AdjustmentMode = "flat"

	// AdjustPercent scales the bid by adjustment percent of its current value.
	AdjustPercent AdjustmentMode = "percent"
)

// Timeframe scopes a condition to a reporting window. Carried as data for
// the upstream aggregation layer; evaluation itself always runs against the
// metrics the caller supplies and never consults the timeframe.
type Timeframe string

const (
	TimeframeLast24Hours Timeframe = "last_24_hours"
	TimeframeLast7Days   Timeframe = "last_7_days"
	TimeframeLast30Days  Timeframe = "last_30_days"
	TimeframeCustomRange Timeframe = "custom_range"
)

// Condition is a single metric comparison. Value2 is the inclusive upper
// bound for the between operator and ignored otherwise. Immutable once
// constructed.
type Condition struct {
	Metric    MetricName `json:"metric"`
	Operator  Operator   `json:"operator"`
	Value     float64    `json:"value"`
	Value2    *float64   `json:"value2,omitempty"`
	Timeframe Timeframe  `json:"timeframe,omitempty"`
}

// ConditionGroup combines an ordered list of conditions with AND or OR.
// Order does not affect the boolean result; it is preserved only so audit
// text lists conditions the way the rule author wrote them.
type ConditionGroup struct {
	Operator   GroupOperator `json:"operator"`
	Conditions []Condition   `json:"conditions"`
}

// Rule is a complete bid rule. Immutable during an evaluation pass: callers
// swap rule sets wholesale rather than mutating a rule while evaluation is
// in flight.
type Rule struct {
	RuleID         int64            `json:"id" db:"rule_id"`
	Name           string           `json:"name" db:"name"`
	Description    string           `json:"description" db:"description"`
	Groups         []ConditionGroup `json:"conditions"`
	Action         Action           `json:"action" db:"action"`
	Adjustment     float64          `json:"adjustment" db:"adjustment"`
	AdjustmentMode AdjustmentMode   `json:"adjustmentMode" db:"adjustment_mode"`
	Priority       int              `json:"priority" db:"priority"`
	IsActive       bool             `json:"isActive" db:"is_active"`
}

// RuleUpdate carries field-level changes for an existing rule. Nil fields
// are left untouched; this is the only sanctioned way to mutate a stored
// rule (e.g. toggling IsActive).
type RuleUpdate struct {
	Name           *string           `json:"name,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Groups         *[]ConditionGroup `json:"conditions,omitempty"`
	Action         *Action           `json:"action,omitempty"`
	Adjustment     *float64          `json:"adjustment,omitempty"`
	AdjustmentMode *AdjustmentMode   `json:"adjustmentMode,omitempty"`
	Priority       *int              `json:"priority,omitempty"`
	IsActive       *bool             `json:"isActive,omitempty"`
}
