package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/adfuel/bidkeeper/internal/forecast"
	"github.com/adfuel/bidkeeper/internal/types"
)

// CampaignPrediction pairs a bid prediction with the campaign it belongs to,
// for bulk responses.
type CampaignPrediction struct {
	CampaignID   int64               `json:"campaignId"`
	CampaignName string              `json:"campaignName"`
	Prediction   forecast.Prediction `json:"prediction"`
}

// Forecast produces a performance projection for one campaign. A days value
// of zero or below falls back to the configured default horizon.
func (s *Service) Forecast(ctx context.Context, campaignID int64, days int) (*forecast.CampaignForecast, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = s.cfg.ForecastDays
	}

	result := s.forecaster.Forecast(&campaign, days)
	s.metrics.ForecastsGenerated.Inc()

	s.log.WithContext(ctx).WithFields(map[string]interface{}{
		"campaign_id": campaignID,
		"days":        days,
	}).Debug("forecast generated")

	return result, nil
}

// PredictBid computes the recommended bid for one campaign. A targetACOS of
// zero or below falls back to the configured default target.
func (s *Service) PredictBid(ctx context.Context, campaignID int64, targetACOS float64) (*forecast.Prediction, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if targetACOS <= 0 {
		targetACOS = s.cfg.TargetACOS
	}

	prediction := forecast.PredictBid(&campaign, targetACOS)
	s.metrics.BidPredictionsTotal.Inc()

	return &prediction, nil
}

// BulkPredictBids computes bid predictions for every campaign. Campaigns
// are processed independently; a failure on one does not stop the rest.
func (s *Service) BulkPredictBids(ctx context.Context, targetACOS float64) ([]CampaignPrediction, error) {
	campaigns, err := s.store.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}

	if targetACOS <= 0 {
		targetACOS = s.cfg.TargetACOS
	}

	predictions := make([]CampaignPrediction, 0, len(campaigns))
	for i := range campaigns {
		campaign := &campaigns[i]
		prediction := forecast.PredictBid(campaign, targetACOS)
		predictions = append(predictions, CampaignPrediction{
			CampaignID:   campaign.CampaignID,
			CampaignName: campaign.Name,
			Prediction:   prediction,
		})
		s.metrics.BidPredictionsTotal.Inc()
	}

	return predictions, nil
}

// IsNotFound reports whether err is one of the not-found sentinels, for
// transport-level status mapping.
func IsNotFound(err error) bool {
	return errors.Is(err, types.ErrCampaignNotFound) || errors.Is(err, types.ErrRuleNotFound)
}
