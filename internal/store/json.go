package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// JSONStore persists holdings and the watchlist as JSON files.
// Reads tolerate the legacy wrapped formats; writes standardize on a
// plain list for holdings and the {"watchlist": [...]} wrapper.
type JSONStore struct {
	holdingsPath  string
	watchlistPath string
	logger        *logger.Logger

	mu sync.Mutex
}

// NewJSONStore creates a file-backed store from config.
func NewJSONStore(cfg *config.Config, log *logger.Logger) *JSONStore {
	return &JSONStore{
		holdingsPath:  cfg.Storage.HoldingsFile,
		watchlistPath: cfg.Storage.WatchlistFile,
		logger:        log,
	}
}

// LoadHoldings reads holdings from disk. A missing file means an
// empty portfolio, not an error.
func (s *JSONStore) LoadHoldings(ctx context.Context) ([]contracts.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.holdingsPath)
	if os.IsNotExist(err) {
		return []contracts.Holding{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}

	holdings, err := decodeHoldings(data)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  s.holdingsPath,
		"count": len(holdings),
	}).Debug("Holdings loaded")

	return holdings, nil
}

// SaveHoldings writes holdings as a plain list.
func (s *JSONStore) SaveHoldings(ctx context.Context, holdings []contracts.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]holdingRecord, 0, len(holdings))
	for _, h := range holdings {
		records = append(records, fromContract(h))
	}

	return s.writeFile(s.holdingsPath, records)
}

// LoadWatchlist reads the watchlist from disk. A missing file means
// an empty watchlist.
func (s *JSONStore) LoadWatchlist(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.watchlistPath)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	return decodeWatchlist(data)
}

// SaveWatchlist writes the watchlist with the wrapper object.
func (s *JSONStore) SaveWatchlist(ctx context.Context, watchlist []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wrapper := struct {
		Watchlist []string `json:"watchlist"`
	}{Watchlist: watchlist}

	return s.writeFile(s.watchlistPath, wrapper)
}

// writeFile marshals v and writes it atomically via a temp file.
func (s *JSONStore) writeFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
