package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// WatchlistHandler serves watchlist CRUD endpoints.
type WatchlistHandler struct {
	manager *store.WatchlistManager
	logger  *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(manager *store.WatchlistManager, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		manager: manager,
		logger:  log,
	}
}

// Get returns the watchlist.
// GET /api/watchlist
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	watchlist, err := h.manager.Get(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": watchlist,
	})
}

// Add adds a ticker to the watchlist.
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Ticker string `json:"ticker"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		respondError(w, http.StatusBadRequest, "Ticker must not be empty")
		return
	}

	watchlist, err := h.manager.Add(r.Context(), req.Ticker)
	if err != nil {
		h.logger.WithError(err).Error("Failed to add watchlist ticker")
		respondError(w, http.StatusInternalServerError, "Failed to add watchlist ticker")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"ticker":    strings.ToUpper(strings.TrimSpace(req.Ticker)),
		"watchlist": watchlist,
	})
}

// Remove removes a ticker from the watchlist.
// DELETE /api/watchlist/{ticker}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	watchlist, err := h.manager.Remove(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).Error("Failed to remove watchlist ticker")
		respondError(w, http.StatusInternalServerError, "Failed to remove watchlist ticker")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"ticker":    strings.ToUpper(strings.TrimSpace(ticker)),
		"watchlist": watchlist,
	})
}
