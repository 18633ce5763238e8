package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// AdvisorHandler serves signal, recommendation and deployment endpoints.
type AdvisorHandler struct {
	service AdvisorService
	logger  *logger.Logger
}

// NewAdvisorHandler creates a new advisor handler.
func NewAdvisorHandler(service AdvisorService, log *logger.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		service: service,
		logger:  log,
	}
}

// GetDailySignals returns holding decisions and watchlist verdicts.
// GET /api/signals/daily
func (h *AdvisorHandler) GetDailySignals(w http.ResponseWriter, r *http.Request) {
	daily, err := h.service.DailySignals(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate daily signals")
		respondError(w, http.StatusInternalServerError, "Failed to generate daily signals")
		return
	}

	respondJSON(w, http.StatusOK, daily)
}

// GetRecommendation generates a recommendation and its guardrail verdict.
// The guardrail mode comes from the "mode" query parameter; anything
// unrecognized falls back to strict.
// GET /api/recommendation?mode=strict|balanced|off
func (h *AdvisorHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	mode := guardrail.ParseMode(r.URL.Query().Get("mode"))

	advice, err := h.service.Recommend(r.Context(), mode)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate recommendation")
		respondError(w, http.StatusInternalServerError, "Failed to generate recommendation")
		return
	}

	respondJSON(w, http.StatusOK, advice)
}

// DeployRequest is a capital deployment request.
type DeployRequest struct {
	Cash float64 `json:"cash"`
}

// Deploy runs the capital deployment pipeline for the given cash amount.
// POST /api/deploy
func (h *AdvisorHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	var req DeployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Cash < 0 {
		respondError(w, http.StatusBadRequest, "Cash must not be negative")
		return
	}

	decision, err := h.service.Deploy(r.Context(), req.Cash)
	if err != nil {
		h.logger.WithError(err).Error("Failed to run capital deployment")
		respondError(w, http.StatusInternalServerError, "Failed to run capital deployment")
		return
	}

	respondJSON(w, http.StatusOK, decision)
}
