// internal/rules/operators.go
package rules

import (
	"math"

	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the five condition operators over float64 metric values.
 * Thresholds come from the rule author; metric values from the campaign
 * record. Both sides are float64, no coercion involved.
 *
 * Operators:
 *   - greater_than / less_than: strict numeric comparison
 *   - equal_to / not_equal_to: epsilon-based equality
 *   - between: inclusive range check, requires an upper bound
 *
 * Equality policy: exact float64 equality is fragile for values that went
 * through CSV parsing and ratio arithmetic, so equal_to and not_equal_to
 * compare within an absolute epsilon of 1e-9. That tolerance is part of
 * the contract and tested explicitly.
 *
 * Why function-based: five operators via switch statement is cleaner than
 * five interface implementations with minimal behavior variation.
 */

// Epsilon is the absolute tolerance for equal_to and not_equal_to.
const Epsilon = 1e-9

// Compare applies the operator to a metric value and the condition's
// thresholds. upper is the between operator's inclusive upper bound; a
// between condition without an upper bound evaluates false rather than
// erroring, matching how a half-specified range is treated everywhere else.
// Returns ErrUnknownOperator for operators outside the enumerated set.
func Compare(op types.Operator, value, threshold float64, upper *float64) (bool, error) {
	switch op {
	case types.OpGreaterThan:
		return value > threshold, nil
	case types.OpLessThan:
		return value < threshold, nil
	case types.OpEqualTo:
		return equalWithin(value, threshold), nil
	case types.OpNotEqualTo:
		return !equalWithin(value, threshold), nil
	case types.OpBetween:
		if upper == nil {
			return false, nil
		}
		return value >= threshold && value <= *upper, nil
	default:
		return false, types.ErrUnknownOperator
	}
}

// equalWithin reports whether a and b differ by at most Epsilon.
func equalWithin(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
