package handlers

import (
	"net/http"
	"time"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/database"
)

// HealthHandler reports service liveness. The database is only probed
// when the postgres backend is active; db is nil otherwise.
type HealthHandler struct {
	backend string
	db      *database.DB
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(backend string, db *database.DB) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		db:      db,
	}
}

// Get returns server health status.
// GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "ok",
		"service":   "portfolio-assistant-api",
		"backend":   h.backend,
		"timestamp": time.Now().UTC(),
	}

	if h.db != nil {
		health, err := h.db.HealthCheck(r.Context())
		body["database"] = health
		if err != nil || !health.Healthy {
			body["status"] = "degraded"
			respondJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}

	respondJSON(w, http.StatusOK, body)
}
