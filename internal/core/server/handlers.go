package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adfuel/bidkeeper/internal/core/api"
	"github.com/adfuel/bidkeeper/internal/types"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.log.WithError(err).Error("failed to encode response")
		}
	}
}

// respondError maps domain errors onto HTTP status codes: not-found
// sentinels become 404, validation sentinels become 400, everything else is
// a 500 with the detail kept out of the response body.
func (s *HTTPServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case api.IsNotFound(err):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case isValidationError(err):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.WithContext(r.Context()).WithError(err).Error("request failed")
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		types.ErrUnknownMetric,
		types.ErrUnknownOperator,
		types.ErrUnknownGroupOperator,
		types.ErrUnknownAction,
		types.ErrUnknownAdjustmentMode,
		types.ErrUnknownTimeframe,
		types.ErrPriorityOutOfRange,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// idParam parses a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.service.ListCampaigns(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, campaigns)
}

func (s *HTTPServer) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign types.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := s.service.CreateCampaign(r.Context(), campaign)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, err := idParam(r, "campaignID")
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid campaign id"})
		return
	}

	campaign, err := s.service.GetCampaign(r.Context(), campaignID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, campaign)
}

func (s *HTTPServer) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.service.ListRules(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rules)
}

func (s *HTTPServer) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule types.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := s.service.CreateRule(r.Context(), rule)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleGetRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := idParam(r, "ruleID")
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rule id"})
		return
	}

	rule, err := s.service.GetRule(r.Context(), ruleID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rule)
}

func (s *HTTPServer) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID, err := idParam(r, "ruleID")
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid rule id"})
		return
	}

	var update types.RuleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	rule, err := s.service.UpdateRule(r.Context(), ruleID, update)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rule)
}

func (s *HTTPServer) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	recommendations, err := s.service.ListRecommendations(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, recommendations)
}

func (s *HTTPServer) handleGenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	report, err := s.service.RunEvaluation(r.Context(), dryRun)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleForecast(w http.ResponseWriter, r *http.Request) {
	campaignID, err := idParam(r, "campaignID")
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid campaign id"})
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be a positive integer"})
			return
		}
	}

	result, err := s.service.Forecast(r.Context(), campaignID, days)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleBidPrediction(w http.ResponseWriter, r *http.Request) {
	campaignID, err := idParam(r, "campaignID")
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid campaign id"})
		return
	}

	targetACOS, ok := targetACOSParam(r)
	if !ok {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "target_acos must be a positive number"})
		return
	}

	prediction, err := s.service.PredictBid(r.Context(), campaignID, targetACOS)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, prediction)
}

func (s *HTTPServer) handleBulkBidPredictions(w http.ResponseWriter, r *http.Request) {
	targetACOS, ok := targetACOSParam(r)
	if !ok {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "target_acos must be a positive number"})
		return
	}

	predictions, err := s.service.BulkPredictBids(r.Context(), targetACOS)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, predictions)
}

// targetACOSParam reads the optional target_acos query parameter. Zero means
// "use the configured default"; the service resolves it.
func targetACOSParam(r *http.Request) (float64, bool) {
	raw := r.URL.Query().Get("target_acos")
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
