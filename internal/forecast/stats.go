// internal/forecast/stats.go
package forecast

import "math"

/*
 * Statistical helpers for the forecasting engine.
 *
 * Small, dependency-free building blocks: safe division with a documented
 * sentinel, population standard deviation, and the two bulk error metrics
 * (MAPE, RMSE) reported alongside forecasts.
 *
 * Division-by-zero policy: every derived ratio in this package goes
 * through SafeDiv, which substitutes 0 when the denominator is zero. One
 * sentinel, applied uniformly, so degenerate campaigns (zero sales, zero
 * clicks) produce zeroed ratios instead of NaN or a failed request.
 */

// SafeDiv divides a by b, substituting 0 when b is zero.
// 0 is the documented division-by-zero sentinel for all derived metrics.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopStdDev returns the population standard deviation of values around
// their mean. Population (not sample) variance matches the reference
// confidence-interval behavior.
func PopStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// MAPE returns the mean absolute percentage error of values against a
// single reference level, as a percentage. Zero reference yields 0 via
// the sentinel policy.
func MAPE(values []float64, reference float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(SafeDiv(v-reference, reference))
	}
	return sum / float64(len(values)) * 100
}

// RMSE returns the root mean square error of values against a single
// reference level.
func RMSE(values []float64, reference float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - reference
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
