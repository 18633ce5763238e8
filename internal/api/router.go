package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/api/handlers"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	health *handlers.HealthHandler,
	portfolioHandler *handlers.PortfolioHandler,
	advisorHandler *handlers.AdvisorHandler,
	watchlistHandler *handlers.WatchlistHandler,
	streamHandler *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", health.Get).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Portfolio endpoints
	api.HandleFunc("/portfolio/summary", portfolioHandler.GetSummary).Methods("GET")
	api.HandleFunc("/portfolio/allocation", portfolioHandler.GetAllocation).Methods("GET")
	api.HandleFunc("/portfolio/holdings", portfolioHandler.GetHoldings).Methods("GET")
	api.HandleFunc("/portfolio/holdings", portfolioHandler.PutHoldings).Methods("PUT")

	// Advisory endpoints
	api.HandleFunc("/signals/daily", advisorHandler.GetDailySignals).Methods("GET")
	api.HandleFunc("/recommendation", advisorHandler.GetRecommendation).Methods("GET")
	api.HandleFunc("/deploy", advisorHandler.Deploy).Methods("POST")

	// Watchlist endpoints
	api.HandleFunc("/watchlist", watchlistHandler.Get).Methods("GET")
	api.HandleFunc("/watchlist", watchlistHandler.Add).Methods("POST")
	api.HandleFunc("/watchlist/{ticker}", watchlistHandler.Remove).Methods("DELETE")

	// Websocket price stream
	r.HandleFunc("/ws/prices", streamHandler.StreamPrices)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
