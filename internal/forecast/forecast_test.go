// internal/forecast/forecast_test.go
package forecast

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/adfuel/bidkeeper/internal/types"
)

var testDay = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// unitForecaster has noise disabled and a pinned clock, making output
// fully deterministic.
func unitForecaster() *Forecaster {
	return NewWithSources(func() float64 { return 1 }, func() time.Time { return testDay })
}

func forecastCampaign() types.Campaign {
	return types.Campaign{
		CampaignID: 1,
		Name:       "Campaign A",
		Budget:     2.00,
		Metrics: types.MetricRecord{
			types.MetricSpend:       140,
			types.MetricSales:       700,
			types.MetricImpressions: 14000,
			types.MetricClicks:      280,
			types.MetricACOS:        20,
			types.MetricROAS:        5,
			types.MetricCTR:         2,
			types.MetricCPC:         0.5,
		},
	}
}

func TestForecast_Shape(t *testing.T) {
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 7)

	if len(fc.HistoricalData) != HistoryDays {
		t.Errorf("historical points = %d, want %d", len(fc.HistoricalData), HistoryDays)
	}
	if len(fc.Forecasts) != 7 {
		t.Errorf("forecast points = %d, want 7", len(fc.Forecasts))
	}
	if len(fc.ConfidenceInterval.Upper) != 7 || len(fc.ConfidenceInterval.Lower) != 7 {
		t.Errorf("interval lengths = %d/%d, want 7/7",
			len(fc.ConfidenceInterval.Upper), len(fc.ConfidenceInterval.Lower))
	}

	// History runs up to today, forecasts start tomorrow.
	if got := fc.HistoricalData[HistoryDays-1].Date; !got.Equal(testDay) {
		t.Errorf("last historical date = %v, want %v", got, testDay)
	}
	if got := fc.Forecasts[0].Date; !got.Equal(testDay.AddDate(0, 0, 1)) {
		t.Errorf("first forecast date = %v, want %v", got, testDay.AddDate(0, 0, 1))
	}
}

func TestForecast_DefaultHorizon(t *testing.T) {
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 0)
	if len(fc.Forecasts) != DefaultHorizon {
		t.Errorf("forecast points = %d, want %d", len(fc.Forecasts), DefaultHorizon)
	}
}

func TestForecast_Deterministic(t *testing.T) {
	campaign := forecastCampaign()
	f := unitForecaster()
	first := f.Forecast(&campaign, 14)
	second := f.Forecast(&campaign, 14)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two forecasts with pinned noise and clock differ")
	}
}

func TestForecast_ZeroErrorWithoutNoise(t *testing.T) {
	// Constant aggregate spend 140 decomposes to exactly 10/day with unit
	// noise, so both error metrics vanish.
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 14)

	for i, p := range fc.HistoricalData {
		if math.Abs(p.Spend-10) > 1e-12 {
			t.Fatalf("historical spend[%d] = %v, want 10", i, p.Spend)
		}
	}
	if math.Abs(fc.ErrorMetrics.MAPE) > 1e-9 {
		t.Errorf("MAPE = %v, want 0", fc.ErrorMetrics.MAPE)
	}
	if math.Abs(fc.ErrorMetrics.RMSE) > 1e-9 {
		t.Errorf("RMSE = %v, want 0", fc.ErrorMetrics.RMSE)
	}
}

func TestForecast_CompoundingGrowth(t *testing.T) {
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 3)

	// Primaries compound from the per-day average: 140/14 = 10 spend,
	// 700/14 = 50 sales, and so on.
	wantSpend := []float64{10 * 1.02, 10 * 1.02 * 1.02, 10 * 1.02 * 1.02 * 1.02}
	for i, p := range fc.Forecasts {
		if math.Abs(p.Spend-wantSpend[i]) > 1e-9 {
			t.Errorf("forecast spend[%d] = %v, want %v", i, p.Spend, wantSpend[i])
		}
	}

	// Derived ratios come from the projected primaries, not the aggregates.
	p := fc.Forecasts[0]
	if want := SafeDiv(p.Spend, p.Sales) * 100; math.Abs(p.ACOS-want) > 1e-9 {
		t.Errorf("forecast acos = %v, want %v", p.ACOS, want)
	}
	if want := SafeDiv(p.Clicks, p.Impressions) * 100; math.Abs(p.CTR-want) > 1e-9 {
		t.Errorf("forecast ctr = %v, want %v", p.CTR, want)
	}
}

func TestForecast_HistoryKeepsAggregateRatios(t *testing.T) {
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 1)
	for i, p := range fc.HistoricalData {
		if p.ACOS != 20 || p.ROAS != 5 || p.CTR != 2 || p.CPC != 0.5 {
			t.Fatalf("historical ratios[%d] = %v/%v/%v/%v, want aggregate 20/5/2/0.5",
				i, p.ACOS, p.ROAS, p.CTR, p.CPC)
		}
	}
}

func TestForecast_IntervalWithoutNoiseCollapses(t *testing.T) {
	// Zero historical variance means zero margin: bounds equal the forecast.
	campaign := forecastCampaign()
	fc := unitForecaster().Forecast(&campaign, 5)
	for i := range fc.Forecasts {
		if math.Abs(fc.ConfidenceInterval.Upper[i].Spend-fc.Forecasts[i].Spend) > 1e-9 {
			t.Errorf("upper spend[%d] = %v, want %v", i, fc.ConfidenceInterval.Upper[i].Spend, fc.Forecasts[i].Spend)
		}
		if math.Abs(fc.ConfidenceInterval.Lower[i].Spend-fc.Forecasts[i].Spend) > 1e-9 {
			t.Errorf("lower spend[%d] = %v, want %v", i, fc.ConfidenceInterval.Lower[i].Spend, fc.Forecasts[i].Spend)
		}
	}
}

func TestForecast_LowerBoundFlooredAtZero(t *testing.T) {
	// Extreme alternating noise inflates the historical stddev until the
	// 1.96-sigma margin exceeds the forecast level, which must floor the
	// lower primaries at zero instead of going negative.
	flip := false
	noisy := NewWithSources(func() float64 {
		flip = !flip
		if flip {
			return 0
		}
		return 2
	}, func() time.Time { return testDay })

	campaign := forecastCampaign()
	fc := noisy.Forecast(&campaign, 5)

	floored := false
	for _, p := range fc.ConfidenceInterval.Lower {
		if p.Spend < 0 || p.Sales < 0 || p.Impressions < 0 || p.Clicks < 0 {
			t.Fatalf("negative lower bound: %+v", p)
		}
		if p.Spend == 0 {
			floored = true
		}
	}
	if !floored {
		t.Errorf("expected at least one floored lower spend bound with extreme noise")
	}
}

func TestForecast_DegenerateCampaign(t *testing.T) {
	// All-zero aggregates must not panic or produce NaN; the sentinel
	// policy zeroes every derived ratio.
	campaign := types.Campaign{
		CampaignID: 2,
		Metrics: types.MetricRecord{
			types.MetricSpend:       0,
			types.MetricSales:       0,
			types.MetricImpressions: 0,
			types.MetricClicks:      0,
			types.MetricACOS:        0,
			types.MetricROAS:        0,
			types.MetricCTR:         0,
			types.MetricCPC:         0,
		},
	}

	fc := unitForecaster().Forecast(&campaign, 14)
	for i, p := range fc.Forecasts {
		if math.IsNaN(p.ACOS) || math.IsNaN(p.ROAS) || math.IsNaN(p.CTR) || math.IsNaN(p.CPC) {
			t.Fatalf("forecast[%d] contains NaN: %+v", i, p)
		}
		if p.ACOS != 0 || p.ROAS != 0 || p.CTR != 0 || p.CPC != 0 {
			t.Fatalf("forecast[%d] ratios = %+v, want all zero sentinels", i, p)
		}
	}
	if math.IsNaN(fc.ErrorMetrics.MAPE) || math.IsNaN(fc.ErrorMetrics.RMSE) {
		t.Errorf("error metrics contain NaN: %+v", fc.ErrorMetrics)
	}
}
