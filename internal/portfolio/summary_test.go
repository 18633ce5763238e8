package portfolio

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

type fakeQuoter map[string]float64

func (f fakeQuoter) Quote(ctx context.Context, ticker string) (float64, error) {
	price, ok := f[ticker]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", ticker)
	}
	return price, nil
}

func TestSummarizer_Build(t *testing.T) {
	quoter := fakeQuoter{"XBB.TO": 28.0, "TD.TO": 90.0}
	s := NewSummarizer(quoter, logger.NewNop())

	summary := s.Build(context.Background(), []contracts.Holding{
		{Ticker: "XBB.TO", Shares: 10, BuyPrice: 25.0, BuyDate: "2025-11-03"},
		{Ticker: "TD.TO", Shares: 2, BuyPrice: 100.0},
	})

	require.Len(t, summary.Positions, 2)

	xbb := summary.Positions[0]
	assert.True(t, xbb.HasPrice)
	assert.Equal(t, 280.0, xbb.Value)
	assert.Equal(t, 12.0, xbb.PnLPercent) // (28-25)/25

	td := summary.Positions[1]
	assert.Equal(t, -10.0, td.PnLPercent) // (90-100)/100

	// value 280+180=460, cost 250+200=450
	assert.True(t, summary.HasReturn)
	assert.Equal(t, 460.0, summary.TotalValue)
	assert.Equal(t, 450.0, summary.TotalCost)
	assert.InDelta(t, 2.22, summary.TotalReturnPct, 0.001)
}

func TestSummarizer_QuoteFailureDegrades(t *testing.T) {
	s := NewSummarizer(fakeQuoter{}, logger.NewNop())

	summary := s.Build(context.Background(), []contracts.Holding{
		{Ticker: "GONE.TO", Shares: 5, BuyPrice: 10},
	})

	require.Len(t, summary.Positions, 1)
	assert.False(t, summary.Positions[0].HasPrice)
	assert.False(t, summary.HasReturn)
}

func TestSummarizer_ZeroCostBasisExcludedFromTotals(t *testing.T) {
	s := NewSummarizer(fakeQuoter{"SAFE.TO": 50.0}, logger.NewNop())

	summary := s.Build(context.Background(), []contracts.Holding{
		{Ticker: "SAFE.TO", Shares: 4}, // migrated bare-string holding
	})

	require.Len(t, summary.Positions, 1)
	assert.True(t, summary.Positions[0].HasPrice)
	assert.Zero(t, summary.Positions[0].PnLPercent)
	assert.False(t, summary.HasReturn)
}

func TestSummarizer_Empty(t *testing.T) {
	s := NewSummarizer(fakeQuoter{}, logger.NewNop())
	summary := s.Build(context.Background(), nil)
	assert.Empty(t, summary.Positions)
	assert.False(t, summary.HasReturn)
}
