package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/advisor"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/portfolio"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// AdvisorService is the slice of the advisory pipeline the HTTP
// handlers consume.
type AdvisorService interface {
	Summary(ctx context.Context) (portfolio.Summary, error)
	Allocation(ctx context.Context) (*advisor.AllocationReport, error)
	DailySignals(ctx context.Context) (*advisor.DailySignals, error)
	Recommend(ctx context.Context, mode guardrail.Mode) (*advisor.Advice, error)
	Deploy(ctx context.Context, cash float64) (contracts.Decision, error)
}

// PortfolioHandler serves portfolio valuation and allocation endpoints.
type PortfolioHandler struct {
	service AdvisorService
	store   store.Store
	logger  *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(service AdvisorService, s store.Store, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		store:   s,
		logger:  log,
	}
}

// GetSummary returns the valued holdings snapshot.
// GET /api/portfolio/summary
func (h *PortfolioHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build portfolio summary")
		respondError(w, http.StatusInternalServerError, "Failed to build portfolio summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetAllocation returns the current allocation, drift and suggestions.
// GET /api/portfolio/allocation
func (h *PortfolioHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Allocation(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute allocation")
		respondError(w, http.StatusInternalServerError, "Failed to compute allocation")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetHoldings returns the raw holdings snapshot.
// GET /api/portfolio/holdings
func (h *PortfolioHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.LoadHoldings(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load holdings")
		respondError(w, http.StatusInternalServerError, "Failed to load holdings")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
	})
}

// PutHoldings replaces the holdings snapshot.
// PUT /api/portfolio/holdings
func (h *PortfolioHandler) PutHoldings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Holdings []contracts.Holding `json:"holdings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, holding := range req.Holdings {
		if holding.Ticker == "" {
			respondError(w, http.StatusBadRequest, "Holding ticker must not be empty")
			return
		}
	}

	if err := h.store.SaveHoldings(r.Context(), req.Holdings); err != nil {
		h.logger.WithError(err).Error("Failed to save holdings")
		respondError(w, http.StatusInternalServerError, "Failed to save holdings")
		return
	}

	h.logger.WithField("count", len(req.Holdings)).Info("Holdings replaced")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"count":  len(req.Holdings),
	})
}
