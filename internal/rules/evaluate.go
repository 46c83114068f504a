// internal/rules/evaluate.go
package rules

import (
	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Rule evaluation orchestration.
 *
 * Evaluates CompiledRule against a campaign metric record. Groups combine
 * internally with their own AND/OR operator; across groups the combination
 * is always OR, so a rule fires when any single group holds.
 *
 * Evaluation flow:
 *   1. Inactive rule: never fires, groups are not evaluated
 *   2. Per group: evaluate every condition, fold with the group operator
 *   3. Per condition: look up metric -> compare operator -> record outcome
 *   4. Missing metric: condition fails closed, outcome carries the reason
 *
 * No short-circuit across conditions: every condition in a group is
 * evaluated even once the group result is decided, because the outcomes
 * feed justification and audit text. Group evaluation does stop once a
 * group matches only in IsTriggered, which discards audit data anyway.
 *
 * Vacuous groups: an AND group with zero conditions evaluates true, an OR
 * group with zero conditions evaluates false - standard identity elements
 * for conjunction and disjunction.
 */

// ConditionOutcome records the evaluation of one condition for audit.
type ConditionOutcome struct {
	Metric   types.MetricName
	Operator types.Operator
	Met      bool
	Value    float64 // observed metric value, zero when missing
	Missing  bool    // metric absent from the record
}

// GroupOutcome records the evaluation of one condition group.
type GroupOutcome struct {
	Operator   types.GroupOperator
	Met        bool
	Conditions []ConditionOutcome
}

// RuleOutcome is the full evaluation result for one (rule, campaign) pair.
type RuleOutcome struct {
	RuleID    int64
	RuleName  string
	Triggered bool
	Groups    []GroupOutcome

	// MissingMetrics lists metrics referenced by conditions but absent from
	// the record, for the caller to log as warnings. Duplicates removed.
	MissingMetrics []types.MetricName
}

// Evaluate checks the rule against the metric record and returns the full
// per-condition audit trail. An inactive rule never triggers, even when a
// vacuously-true empty AND group is present.
func Evaluate(rule *CompiledRule, metrics types.MetricRecord) RuleOutcome {
	outcome := RuleOutcome{
		RuleID:   rule.RuleID,
		RuleName: rule.Name,
	}

	if !rule.IsActive {
		return outcome
	}

	seen := make(map[types.MetricName]bool)
	for _, group := range rule.Groups {
		g := evaluateGroup(group, metrics)
		outcome.Groups = append(outcome.Groups, g)
		if g.Met {
			outcome.Triggered = true
		}
		for _, c := range g.Conditions {
			if c.Missing && !seen[c.Metric] {
				seen[c.Metric] = true
				outcome.MissingMetrics = append(outcome.MissingMetrics, c.Metric)
			}
		}
	}

	return outcome
}

// IsTriggered reports whether the rule fires for the record, without
// collecting audit data. Stops at the first matching group.
func IsTriggered(rule *CompiledRule, metrics types.MetricRecord) bool {
	if !rule.IsActive {
		return false
	}
	for _, group := range rule.Groups {
		if evaluateGroup(group, metrics).Met {
			return true
		}
	}
	return false
}

// evaluateGroup evaluates every condition in the group and folds the
// results with the group operator. All conditions run regardless of the
// running result so the outcome list is complete for audit text.
func evaluateGroup(group CompiledGroup, metrics types.MetricRecord) GroupOutcome {
	g := GroupOutcome{
		Operator:   group.Operator,
		Conditions: make([]ConditionOutcome, 0, len(group.Conditions)),
	}

	// Identity elements: AND over nothing is true, OR over nothing is false.
	g.Met = group.Operator == types.GroupAnd

	for _, cond := range group.Conditions {
		c := evaluateCondition(cond, metrics)
		g.Conditions = append(g.Conditions, c)
		if group.Operator == types.GroupAnd {
			g.Met = g.Met && c.Met
		} else {
			g.Met = g.Met || c.Met
		}
	}

	return g
}

// evaluateCondition evaluates a single condition against the record.
// A metric absent from the record fails closed: the condition contributes
// false and the outcome notes the missing metric for caller-side logging.
// Compare cannot return an unknown-operator error here because compilation
// already rejected anything outside the enum.
func evaluateCondition(cond CompiledCondition, metrics types.MetricRecord) ConditionOutcome {
	c := ConditionOutcome{
		Metric:   cond.Metric,
		Operator: cond.Operator,
	}

	value, ok := metrics[cond.Metric]
	if !ok {
		c.Missing = true
		return c
	}
	c.Value = value

	met, err := Compare(cond.Operator, value, cond.Value, cond.Value2)
	if err != nil {
		return c
	}
	c.Met = met
	return c
}
