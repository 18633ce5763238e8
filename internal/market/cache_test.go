package market

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

type fakeQuoter struct {
	prices map[string]float64
	calls  int
}

func (f *fakeQuoter) Quote(ctx context.Context, ticker string) (float64, error) {
	f.calls++
	price, ok := f.prices[ticker]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", ticker)
	}
	return price, nil
}

type fakeHistorian struct {
	points []PricePoint
	calls  int
}

func (f *fakeHistorian) History(ctx context.Context, ticker string, rangeStr string) ([]PricePoint, error) {
	f.calls++
	return f.points, nil
}

func newDisabledCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func TestCachedPrices_LookupAdaptsQuotes(t *testing.T) {
	quoter := &fakeQuoter{prices: map[string]float64{"XBB.TO": 27.69}}
	cached := NewCachedPrices(quoter, nil, newDisabledCache(t), logger.NewNop())

	lookup := cached.Lookup(context.Background())

	price, ok := lookup("XBB.TO")
	assert.True(t, ok)
	assert.Equal(t, 27.69, price)

	_, ok = lookup("MISSING.TO")
	assert.False(t, ok)
}

func TestCachedPrices_LookupRejectsNonPositivePrice(t *testing.T) {
	// Chart rows can carry zero closes; those are misses, not prices.
	quoter := &fakeQuoter{prices: map[string]float64{"HALT.TO": 0, "NEG.TO": -1}}
	cached := NewCachedPrices(quoter, nil, newDisabledCache(t), logger.NewNop())

	lookup := cached.Lookup(context.Background())

	_, ok := lookup("HALT.TO")
	assert.False(t, ok)

	_, ok = lookup("NEG.TO")
	assert.False(t, ok)
}

func TestCachedPrices_HistoryFallsThroughToClient(t *testing.T) {
	historian := &fakeHistorian{points: []PricePoint{{Close: 27.69}, {Close: 28.11}}}
	cached := NewCachedPrices(nil, historian, newDisabledCache(t), logger.NewNop())

	points, err := cached.History(context.Background(), "XBB.TO", "6mo")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 27.69, points[0].Close)
	assert.Equal(t, 1, historian.calls)
}

func TestCachedPrices_WarmCountsSuccesses(t *testing.T) {
	quoter := &fakeQuoter{prices: map[string]float64{"XBB.TO": 27.69, "TD.TO": 84.12}}
	cached := NewCachedPrices(quoter, nil, newDisabledCache(t), logger.NewNop())

	warmed := cached.Warm(context.Background(), []string{"XBB.TO", "TD.TO", "MISSING.TO"})
	assert.Equal(t, 2, warmed)
	assert.Equal(t, 3, quoter.calls)
}
