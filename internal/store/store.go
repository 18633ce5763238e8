package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// Store persists holdings and the watchlist.
type Store interface {
	LoadHoldings(ctx context.Context) ([]contracts.Holding, error)
	SaveHoldings(ctx context.Context, holdings []contracts.Holding) error
	LoadWatchlist(ctx context.Context) ([]string, error)
	SaveWatchlist(ctx context.Context, watchlist []string) error
}

// holdingRecord accepts both stored shapes for a holding: a bare ticker
// string ("XBB.TO") or a full record with shares and cost basis.
type holdingRecord struct {
	Ticker   string  `json:"ticker"`
	Shares   float64 `json:"shares,omitempty"`
	BuyPrice float64 `json:"buy_price,omitempty"`
	BuyDate  string  `json:"buy_date,omitempty"`
}

func (h *holdingRecord) UnmarshalJSON(data []byte) error {
	// Bare string form first.
	var ticker string
	if err := json.Unmarshal(data, &ticker); err == nil {
		h.Ticker = ticker
		h.Shares = 1
		return nil
	}

	type record holdingRecord
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("holding entry is neither string nor record: %w", err)
	}
	*h = holdingRecord(rec)
	if h.Shares == 0 {
		h.Shares = 1
	}
	return nil
}

func (h holdingRecord) toContract() contracts.Holding {
	return contracts.Holding{
		Ticker:   h.Ticker,
		Shares:   h.Shares,
		BuyPrice: h.BuyPrice,
		BuyDate:  h.BuyDate,
	}
}

func fromContract(h contracts.Holding) holdingRecord {
	return holdingRecord{
		Ticker:   h.Ticker,
		Shares:   h.Shares,
		BuyPrice: h.BuyPrice,
		BuyDate:  h.BuyDate,
	}
}

// decodeHoldings accepts both the plain list format and the legacy
// {"holdings": [...]} wrapper.
func decodeHoldings(data []byte) ([]contracts.Holding, error) {
	var records []holdingRecord

	var wrapper struct {
		Holdings []holdingRecord `json:"holdings"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Holdings != nil {
		records = wrapper.Holdings
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unrecognized holdings format: %w", err)
	}

	holdings := make([]contracts.Holding, 0, len(records))
	for _, rec := range records {
		if rec.Ticker == "" {
			continue
		}
		holdings = append(holdings, rec.toContract())
	}
	return holdings, nil
}

// decodeWatchlist accepts both a plain list of tickers and the
// {"watchlist": [...]} wrapper.
func decodeWatchlist(data []byte) ([]string, error) {
	var wrapper struct {
		Watchlist []string `json:"watchlist"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Watchlist != nil {
		return wrapper.Watchlist, nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unrecognized watchlist format: %w", err)
	}
	return list, nil
}
