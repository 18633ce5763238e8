package portfolio

import (
	"context"
	"math"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// Quoter provides the latest close for a ticker.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (float64, error)
}

// PositionSummary is one holding with its live valuation. HasPrice is
// false when no quote could be resolved; price fields are then zero.
type PositionSummary struct {
	Ticker       string  `json:"ticker"`
	Shares       float64 `json:"shares"`
	BuyPrice     float64 `json:"buy_price"`
	BuyDate      string  `json:"buy_date,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	Value        float64 `json:"value,omitempty"`
	PnLPercent   float64 `json:"pnl_percent,omitempty"`
	HasPrice     bool    `json:"has_price"`
}

// Summary aggregates position valuations. Totals only include
// positions with a resolved price and a known cost basis.
type Summary struct {
	Positions      []PositionSummary `json:"positions"`
	TotalValue     float64           `json:"total_value"`
	TotalCost      float64           `json:"total_cost"`
	TotalReturnPct float64           `json:"total_return_pct"`
	HasReturn      bool              `json:"has_return"`
}

// Summarizer values holdings against live quotes.
type Summarizer struct {
	quoter Quoter
	logger *logger.Logger
}

// NewSummarizer creates a portfolio summarizer.
func NewSummarizer(quoter Quoter, log *logger.Logger) *Summarizer {
	return &Summarizer{
		quoter: quoter,
		logger: log,
	}
}

// Build values each holding. Quote failures degrade that position to
// an N/A row instead of failing the whole summary.
func (s *Summarizer) Build(ctx context.Context, holdings []contracts.Holding) Summary {
	summary := Summary{Positions: make([]PositionSummary, 0, len(holdings))}

	for _, h := range holdings {
		pos := PositionSummary{
			Ticker:   h.Ticker,
			Shares:   h.Shares,
			BuyPrice: h.BuyPrice,
			BuyDate:  h.BuyDate,
		}

		price, err := s.quoter.Quote(ctx, h.Ticker)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", h.Ticker).Warn("Quote unavailable for summary")
			summary.Positions = append(summary.Positions, pos)
			continue
		}

		pos.HasPrice = true
		pos.CurrentPrice = price
		pos.Value = round2(price * h.Shares)
		if h.BuyPrice > 0 {
			pos.PnLPercent = round2((price - h.BuyPrice) / h.BuyPrice * 100)

			summary.TotalValue += price * h.Shares
			summary.TotalCost += h.BuyPrice * h.Shares
		}

		summary.Positions = append(summary.Positions, pos)
	}

	if summary.TotalCost > 0 {
		summary.HasReturn = true
		summary.TotalReturnPct = round2((summary.TotalValue - summary.TotalCost) / summary.TotalCost * 100)
	}
	summary.TotalValue = round2(summary.TotalValue)
	summary.TotalCost = round2(summary.TotalCost)

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
