package store

import (
	"context"
	"strings"
)

// WatchlistManager layers ticker normalization and dedup on top of a
// Store. All watchlist mutations go through this type so the stored
// list stays uppercase and unique.
type WatchlistManager struct {
	store Store
}

// NewWatchlistManager creates a watchlist manager.
func NewWatchlistManager(store Store) *WatchlistManager {
	return &WatchlistManager{store: store}
}

// Get returns the current watchlist.
func (m *WatchlistManager) Get(ctx context.Context) ([]string, error) {
	return m.store.LoadWatchlist(ctx)
}

// Add normalizes and appends tickers, skipping blanks and duplicates,
// and returns the updated list.
func (m *WatchlistManager) Add(ctx context.Context, tickers ...string) ([]string, error) {
	watchlist, err := m.store.LoadWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(watchlist))
	for _, t := range watchlist {
		seen[t] = true
	}

	for _, ticker := range tickers {
		ticker = normalizeTicker(ticker)
		if ticker == "" || seen[ticker] {
			continue
		}
		watchlist = append(watchlist, ticker)
		seen[ticker] = true
	}

	if err := m.store.SaveWatchlist(ctx, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// Remove deletes a ticker if present and returns the updated list.
func (m *WatchlistManager) Remove(ctx context.Context, ticker string) ([]string, error) {
	watchlist, err := m.store.LoadWatchlist(ctx)
	if err != nil {
		return nil, err
	}

	ticker = normalizeTicker(ticker)

	filtered := watchlist[:0]
	for _, t := range watchlist {
		if t != ticker {
			filtered = append(filtered, t)
		}
	}

	if err := m.store.SaveWatchlist(ctx, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// normalizeTicker uppercases and trims a ticker symbol.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
