// internal/rules/operators_test.go
package rules

import (
	"errors"
	"testing"

	"github.com/adfuel/bidkeeper/internal/types"
)

func TestCompare_Operators(t *testing.T) {
	upper := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		op        types.Operator
		value     float64
		threshold float64
		upper     *float64
		want      bool
	}{
		{name: "greater_than true", op: types.OpGreaterThan, value: 20, threshold: 15, want: true},
		{name: "greater_than equal is false", op: types.OpGreaterThan, value: 15, threshold: 15, want: false},
		{name: "less_than true", op: types.OpLessThan, value: 1.5, threshold: 2, want: true},
		{name: "less_than false", op: types.OpLessThan, value: 2.5, threshold: 2, want: false},
		{name: "equal_to exact", op: types.OpEqualTo, value: 5, threshold: 5, want: true},
		{name: "equal_to within epsilon", op: types.OpEqualTo, value: 0.1 + 0.2, threshold: 0.3, want: true},
		{name: "equal_to outside epsilon", op: types.OpEqualTo, value: 5.00001, threshold: 5, want: false},
		{name: "not_equal_to true", op: types.OpNotEqualTo, value: 5.1, threshold: 5, want: true},
		{name: "not_equal_to within epsilon is false", op: types.OpNotEqualTo, value: 0.1 + 0.2, threshold: 0.3, want: false},
		{name: "between inside", op: types.OpBetween, value: 15, threshold: 10, upper: upper(20), want: true},
		{name: "between below lower bound", op: types.OpBetween, value: 9.999, threshold: 10, upper: upper(20), want: false},
		{name: "between lower bound inclusive", op: types.OpBetween, value: 10, threshold: 10, upper: upper(20), want: true},
		{name: "between upper bound inclusive", op: types.OpBetween, value: 20, threshold: 10, upper: upper(20), want: true},
		{name: "between above upper bound", op: types.OpBetween, value: 20.001, threshold: 10, upper: upper(20), want: false},
		{name: "between without upper bound", op: types.OpBetween, value: 15, threshold: 10, upper: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.op, tt.value, tt.threshold, tt.upper)
			if err != nil {
				t.Fatalf("Compare() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Compare() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompare_UnknownOperator(t *testing.T) {
	_, err := Compare(types.Operator("matches_regex"), 1, 2, nil)
	if !errors.Is(err, types.ErrUnknownOperator) {
		t.Fatalf("Compare() error = %v, want ErrUnknownOperator", err)
	}
}
