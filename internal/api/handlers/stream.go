package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// StreamHandler pushes periodic price snapshots over a websocket.
type StreamHandler struct {
	store    store.Store
	prices   *market.CachedPrices
	logger   *logger.Logger
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewStreamHandler creates a new price stream handler.
func NewStreamHandler(s store.Store, prices *market.CachedPrices, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		store:  s,
		prices: prices,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Single-user local deployment, no cross-origin policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: 30 * time.Second,
	}
}

// PriceUpdate is one streamed price snapshot entry.
type PriceUpdate struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price,omitempty"`
	HasPrice  bool      `json:"has_price"`
	Timestamp time.Time `json:"timestamp"`
}

// StreamPrices streams quotes for the requested tickers. Without a
// "tickers" query parameter it streams every held and watched ticker.
// GET /ws/prices?tickers=XBB.TO,TD.TO
func (h *StreamHandler) StreamPrices(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.resolveTickers(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to resolve tickers")
		return
	}
	if len(tickers) == 0 {
		respondError(w, http.StatusBadRequest, "No tickers to stream")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.WithField("tickers", len(tickers)).Info("Price stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader goroutine detects client disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.sendSnapshot(ctx, conn, tickers); err != nil {
			h.logger.WithError(err).Debug("Price stream closed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *StreamHandler) resolveTickers(r *http.Request) ([]string, error) {
	if raw := r.URL.Query().Get("tickers"); raw != "" {
		var tickers []string
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t != "" {
				tickers = append(tickers, t)
			}
		}
		return tickers, nil
	}

	holdings, err := h.store.LoadHoldings(r.Context())
	if err != nil {
		return nil, err
	}
	watchlist, err := h.store.LoadWatchlist(r.Context())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tickers []string
	for _, t := range append(contracts.Tickers(holdings), watchlist...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers, nil
}

func (h *StreamHandler) sendSnapshot(ctx context.Context, conn *websocket.Conn, tickers []string) error {
	now := time.Now()
	updates := make([]PriceUpdate, 0, len(tickers))

	for _, t := range tickers {
		update := PriceUpdate{Ticker: t, Timestamp: now}
		if price, err := h.prices.Quote(ctx, t); err == nil {
			update.Price = price
			update.HasPrice = true
		}
		updates = append(updates, update)
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(updates)
}
