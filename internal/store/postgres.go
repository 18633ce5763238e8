package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// PostgresStore persists holdings and the watchlist in PostgreSQL.
// Used for server deployments; the CLI defaults to the JSON store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS holdings (
			ticker     TEXT PRIMARY KEY,
			shares     DOUBLE PRECISION NOT NULL DEFAULT 1,
			buy_price  DOUBLE PRECISION NOT NULL DEFAULT 0,
			buy_date   TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS watchlist (
			ticker   TEXT PRIMARY KEY,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// LoadHoldings reads all holdings ordered by ticker.
func (s *PostgresStore) LoadHoldings(ctx context.Context) ([]contracts.Holding, error) {
	query := `
		SELECT ticker, shares, buy_price, buy_date
		FROM holdings
		ORDER BY ticker
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []contracts.Holding
	for rows.Next() {
		var h contracts.Holding
		if err := rows.Scan(&h.Ticker, &h.Shares, &h.BuyPrice, &h.BuyDate); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}

	return holdings, nil
}

// SaveHoldings replaces all holdings in one transaction.
func (s *PostgresStore) SaveHoldings(ctx context.Context, holdings []contracts.Holding) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM holdings"); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	query := `
		INSERT INTO holdings (ticker, shares, buy_price, buy_date)
		VALUES ($1, $2, $3, $4)
	`
	for _, h := range holdings {
		shares := h.Shares
		if shares == 0 {
			shares = 1
		}
		if _, err := tx.Exec(ctx, query, h.Ticker, shares, h.BuyPrice, h.BuyDate); err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit holdings: %w", err)
	}

	return nil
}

// LoadWatchlist reads the watchlist ordered by insertion time.
func (s *PostgresStore) LoadWatchlist(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT ticker FROM watchlist ORDER BY added_at, ticker")
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var watchlist []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist ticker: %w", err)
		}
		watchlist = append(watchlist, ticker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	return watchlist, nil
}

// SaveWatchlist replaces the watchlist in one transaction.
func (s *PostgresStore) SaveWatchlist(ctx context.Context, watchlist []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM watchlist"); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}

	for _, ticker := range watchlist {
		if _, err := tx.Exec(ctx, "INSERT INTO watchlist (ticker) VALUES ($1)", ticker); err != nil {
			return fmt.Errorf("failed to insert watchlist ticker %s: %w", ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit watchlist: %w", err)
	}

	return nil
}
