// internal/forecast/forecast.go
package forecast

import (
	"math/rand"
	"time"

	"github.com/adfuel/bidkeeper/internal/types"
)

/*
 * Campaign metric forecasting.
 *
 * Projects future daily metrics from a campaign's period-total aggregates.
 * The upstream data is a single aggregate row per campaign, so the engine
 * first decomposes it into a synthetic 14-day history, then compounds
 * fixed per-metric growth rates forward from the per-day average.
 *
 * Pipeline:
 *   1. Synthetic history: aggregate / 14 per day, independent multiplicative
 *      noise in [0.95, 1.05] on the four primaries; ratio metrics (acos,
 *      roas, ctr, cpc) held at their aggregate values, not re-derived
 *   2. Projection: value_t = (aggregate/14) * (1+rate)^t per primary
 *   3. Derived ratios per forecast day through SafeDiv
 *   4. Confidence bounds: +/- 1.96 * population stddev of each primary over
 *      the history, fixed per day (not scaled by horizon - kept for
 *      compatibility with the reference behavior); lower primaries floored
 *      at 0, ratios re-derived from the shifted primaries
 *   5. Error metrics: MAPE and RMSE of historical spend against the mean
 *      daily spend (spend only - a deliberate simplification)
 *
 * The noise source is the only stochastic element and is injected through
 * the Forecaster so tests can pin it. A unit noise function makes two runs
 * over the same campaign byte-identical.
 */

// Fixed horizon and decomposition parameters.
const (
	// HistoryDays is the length of the synthetic daily history.
	HistoryDays = 14

	// DefaultHorizon is the forecast length when the caller does not
	// specify one.
	DefaultHorizon = 14

	// zScore is the 95% confidence multiplier applied to the historical
	// standard deviation.
	zScore = 1.96
)

// Assumed daily growth rates per primary metric.
const (
	spendTrend       = 0.02
	salesTrend       = 0.025
	impressionsTrend = 0.015
	clicksTrend      = 0.02
)

// Point is one day's metric vector, historical or projected.
type Point struct {
	Date        time.Time `json:"date"`
	Spend       float64   `json:"spend"`
	Sales       float64   `json:"sales"`
	ACOS        float64   `json:"acos"`
	ROAS        float64   `json:"roas"`
	Impressions float64   `json:"impressions"`
	Clicks      float64   `json:"clicks"`
	CTR         float64   `json:"ctr"`
	CPC         float64   `json:"cpc"`
}

// Interval holds per-day upper and lower forecast bounds, parallel to the
// forecast series.
type Interval struct {
	Upper []Point `json:"upper"`
	Lower []Point `json:"lower"`
}

// ErrorMetrics reports forecast accuracy against the synthetic history.
type ErrorMetrics struct {
	MAPE float64 `json:"mape"`
	RMSE float64 `json:"rmse"`
}

// CampaignForecast is the complete forecasting output for one campaign.
// HistoricalData always has HistoryDays points; Forecasts and both
// confidence bounds have exactly the requested horizon.
type CampaignForecast struct {
	CampaignID         int64        `json:"campaignId"`
	HistoricalData     []Point      `json:"historicalData"`
	Forecasts          []Point      `json:"forecasts"`
	ConfidenceInterval Interval     `json:"confidenceInterval"`
	ErrorMetrics       ErrorMetrics `json:"errorMetrics"`
}

// Forecaster generates campaign forecasts. Stateless between calls apart
// from the injected noise source, so one instance may serve concurrent
// callers only when the noise function itself is safe for concurrent use.
type Forecaster struct {
	noise func() float64   // multiplicative factor, nominally in [0.95, 1.05]
	now   func() time.Time // date anchor for history and forecast points
}

// New returns a Forecaster with seeded pseudo-random noise and wall-clock
// dates.
func New() *Forecaster {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewWithSources(func() float64 {
		return 0.95 + rng.Float64()*0.1
	}, time.Now)
}

// NewWithSources returns a Forecaster with caller-supplied noise and clock
// functions. Tests pin both to make the output fully deterministic; a noise
// function returning 1 disables history jitter entirely.
func NewWithSources(noise func() float64, now func() time.Time) *Forecaster {
	return &Forecaster{noise: noise, now: now}
}

// Forecast projects the campaign's metrics days ahead. A non-positive days
// falls back to DefaultHorizon. Degenerate aggregates (zero sales, clicks,
// or impressions) flow through the sentinel policy and yield a forecast
// with zeroed ratios rather than an error.
func (f *Forecaster) Forecast(campaign *types.Campaign, days int) *CampaignForecast {
	if days <= 0 {
		days = DefaultHorizon
	}

	m := campaign.Metrics
	today := f.now().UTC().Truncate(24 * time.Hour)

	// Per-day averages anchor both the history decomposition and the
	// projection starting point.
	dailySpend := m[types.MetricSpend] / HistoryDays
	dailySales := m[types.MetricSales] / HistoryDays
	dailyImpressions := m[types.MetricImpressions] / HistoryDays
	dailyClicks := m[types.MetricClicks] / HistoryDays

	history := make([]Point, HistoryDays)
	for i := range history {
		noise := f.noise()
		history[i] = Point{
			Date:        today.AddDate(0, 0, -(HistoryDays - 1 - i)),
			Spend:       dailySpend * noise,
			Sales:       dailySales * noise,
			Impressions: dailyImpressions * noise,
			Clicks:      dailyClicks * noise,
			// Ratio metrics stay at their aggregate values for history
			// points; they are not re-derived per day.
			ACOS: m[types.MetricACOS],
			ROAS: m[types.MetricROAS],
			CTR:  m[types.MetricCTR],
			CPC:  m[types.MetricCPC],
		}
	}

	forecasts := make([]Point, days)
	spend, sales := dailySpend, dailySales
	impressions, clicks := dailyImpressions, dailyClicks
	for i := range forecasts {
		spend *= 1 + spendTrend
		sales *= 1 + salesTrend
		impressions *= 1 + impressionsTrend
		clicks *= 1 + clicksTrend
		forecasts[i] = derivePoint(today.AddDate(0, 0, i+1), spend, sales, impressions, clicks)
	}

	spendDev := zScore * PopStdDev(collect(history, func(p Point) float64 { return p.Spend }))
	salesDev := zScore * PopStdDev(collect(history, func(p Point) float64 { return p.Sales }))
	impressionsDev := zScore * PopStdDev(collect(history, func(p Point) float64 { return p.Impressions }))
	clicksDev := zScore * PopStdDev(collect(history, func(p Point) float64 { return p.Clicks }))

	interval := Interval{
		Upper: make([]Point, days),
		Lower: make([]Point, days),
	}
	for i, p := range forecasts {
		interval.Upper[i] = derivePoint(p.Date,
			p.Spend+spendDev,
			p.Sales+salesDev,
			p.Impressions+impressionsDev,
			p.Clicks+clicksDev)
		interval.Lower[i] = derivePoint(p.Date,
			floorZero(p.Spend-spendDev),
			floorZero(p.Sales-salesDev),
			floorZero(p.Impressions-impressionsDev),
			floorZero(p.Clicks-clicksDev))
	}

	spendHistory := collect(history, func(p Point) float64 { return p.Spend })

	return &CampaignForecast{
		CampaignID:         campaign.CampaignID,
		HistoricalData:     history,
		Forecasts:          forecasts,
		ConfidenceInterval: interval,
		ErrorMetrics: ErrorMetrics{
			MAPE: MAPE(spendHistory, dailySpend),
			RMSE: RMSE(spendHistory, dailySpend),
		},
	}
}

// derivePoint builds a forecast point from the four primaries, deriving
// the ratio metrics through the sentinel division policy.
func derivePoint(date time.Time, spend, sales, impressions, clicks float64) Point {
	return Point{
		Date:        date,
		Spend:       spend,
		Sales:       sales,
		Impressions: impressions,
		Clicks:      clicks,
		ACOS:        SafeDiv(spend, sales) * 100,
		ROAS:        SafeDiv(sales, spend),
		CTR:         SafeDiv(clicks, impressions) * 100,
		CPC:         SafeDiv(spend, clicks),
	}
}

// collect extracts one metric across points.
func collect(points []Point, get func(Point) float64) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = get(p)
	}
	return values
}

// floorZero clamps negative lower bounds to zero.
func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
