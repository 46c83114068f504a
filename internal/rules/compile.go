// internal/rules/compile.go
package rules

import (
	"fmt"

	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Rule compilation and validation.
 *
 * Compiles types.Rule to CompiledRule with validated enums and normalized
 * defaults. Compilation moves malformed-rule detection to rule load time
 * so the evaluation loop never sees an unknown operator or action; batch
 * callers skip rules that fail to compile and report the skip as a
 * per-rule diagnostic rather than aborting the pass.
 *
 * Validation:
 *   1. Metric names restricted to the fixed eight-metric set
 *   2. Condition and group operators restricted to their enums
 *   3. Timeframes, where present, restricted to their enum
 *   4. Action and adjustment mode restricted to their enums
 *   5. Priority within [0, 100]
 *
 * Normalization: an empty adjustment mode defaults to flat, matching the
 * historical behavior where increase_bid and decrease_bid applied the
 * adjustment as an absolute amount.
 *
 * A between condition without an upper bound compiles fine and simply
 * never matches; rule authors use that to park a half-written range
 * without deactivating the whole rule.
 */

// CompiledCondition is a validated condition ready for evaluation.
type CompiledCondition struct {
	Metric   types.MetricName
	Operator types.Operator
	Value    float64
	Value2   *float64
}

// CompiledGroup is a validated condition group.
type CompiledGroup struct {
	Operator   types.GroupOperator
	Conditions []CompiledCondition
}

// CompiledRule is fully validated and ready for evaluation.
type CompiledRule struct {
	RuleID         int64
	Name           string
	Action         types.Action
	Adjustment     float64
	AdjustmentMode types.AdjustmentMode
	Priority       int
	IsActive       bool
	Groups         []CompiledGroup
}

// Compile validates and normalizes a rule for evaluation.
func Compile(rule *types.Rule) (*CompiledRule, error) {
	switch rule.Action {
	case types.ActionIncreaseBid, types.ActionDecreaseBid, types.ActionPauseCampaign:
	default:
		return nil, fmt.Errorf("action %q: %w", rule.Action, types.ErrUnknownAction)
	}

	mode := rule.AdjustmentMode
	if mode == "" {
		mode = types.AdjustFlat
	}
	switch mode {
	case types.AdjustFlat, types.AdjustPercent:
	default:
		return nil, fmt.Errorf("adjustment mode %q: %w", rule.AdjustmentMode, types.ErrUnknownAdjustmentMode)
	}

	if rule.Priority < 0 || rule.Priority > 100 {
		return nil, fmt.Errorf("priority %d: %w", rule.Priority, types.ErrPriorityOutOfRange)
	}

	compiled := &CompiledRule{
		RuleID:         rule.RuleID,
		Name:           rule.Name,
		Action:         rule.Action,
		Adjustment:     rule.Adjustment,
		AdjustmentMode: mode,
		Priority:       rule.Priority,
		IsActive:       rule.IsActive,
		Groups:         make([]CompiledGroup, 0, len(rule.Groups)),
	}

	for gi, group := range rule.Groups {
		switch group.Operator {
		case types.GroupAnd, types.GroupOr:
		default:
			return nil, fmt.Errorf("group %d operator %q: %w", gi, group.Operator, types.ErrUnknownGroupOperator)
		}

		cg := CompiledGroup{
			Operator:   group.Operator,
			Conditions: make([]CompiledCondition, 0, len(group.Conditions)),
		}

		for ci, cond := range group.Conditions {
			cc, err := compileCondition(cond)
			if err != nil {
				return nil, fmt.Errorf("group %d condition %d: %w", gi, ci, err)
			}
			cg.Conditions = append(cg.Conditions, cc)
		}

		compiled.Groups = append(compiled.Groups, cg)
	}

	return compiled, nil
}

// compileCondition validates a single condition's metric, operator, and
// timeframe against their enumerated sets.
func compileCondition(cond types.Condition) (CompiledCondition, error) {
	if !types.KnownMetric(cond.Metric) {
		return CompiledCondition{}, fmt.Errorf("metric %q: %w", cond.Metric, types.ErrUnknownMetric)
	}

	switch cond.Operator {
	case types.OpGreaterThan, types.OpLessThan, types.OpEqualTo, types.OpNotEqualTo, types.OpBetween:
	default:
		return CompiledCondition{}, fmt.Errorf("operator %q: %w", cond.Operator, types.ErrUnknownOperator)
	}

	if cond.Timeframe != "" {
		switch cond.Timeframe {
		case types.TimeframeLast24Hours, types.TimeframeLast7Days, types.TimeframeLast30Days, types.TimeframeCustomRange:
		default:
			return CompiledCondition{}, fmt.Errorf("timeframe %q: %w", cond.Timeframe, types.ErrUnknownTimeframe)
		}
	}

	return CompiledCondition{
		Metric:   cond.Metric,
		Operator: cond.Operator,
		Value:    cond.Value,
		Value2:   cond.Value2,
	}, nil
}
