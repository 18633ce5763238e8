package market

import (
	"context"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

// Quoter is the minimal quote surface CachedPrices needs from the client.
type Quoter interface {
	Quote(ctx context.Context, ticker string) (float64, error)
}

// Historian is the history surface CachedPrices needs from the client.
type Historian interface {
	History(ctx context.Context, ticker string, rangeStr string) ([]PricePoint, error)
}

// CachedPrices layers the Redis cache over live market data. When Redis
// is disabled every lookup goes straight to the client.
type CachedPrices struct {
	quoter    Quoter
	historian Historian
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewCachedPrices creates a cached market data source. historian may be
// nil when only quotes are needed.
func NewCachedPrices(quoter Quoter, historian Historian, cache *redis.Cache, log *logger.Logger) *CachedPrices {
	return &CachedPrices{
		quoter:    quoter,
		historian: historian,
		cache:     cache,
		logger:    log,
	}
}

// Quote returns a cached close, falling through to the live source.
func (p *CachedPrices) Quote(ctx context.Context, ticker string) (float64, error) {
	var cached float64
	if found, err := p.cache.Get(ctx, redis.QuoteKey(ticker), &cached); err == nil && found {
		return cached, nil
	}

	price, err := p.quoter.Quote(ctx, ticker)
	if err != nil {
		return 0, err
	}

	if err := p.cache.Set(ctx, redis.QuoteKey(ticker), price, redis.TTLShort); err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to cache quote")
	}

	return price, nil
}

// Lookup adapts cached quotes to the deploy engine's price function.
// Failed or non-positive lookups report ok=false so callers fall back
// to estimates. Zero-filled chart rows must not leak through as prices.
func (p *CachedPrices) Lookup(ctx context.Context) contracts.PriceLookup {
	return func(ticker string) (float64, bool) {
		price, err := p.Quote(ctx, ticker)
		if err != nil {
			p.logger.WithError(err).WithField("ticker", ticker).Debug("Price lookup miss")
			return 0, false
		}
		if price <= 0 {
			p.logger.WithField("ticker", ticker).Debug("Discarding non-positive quote")
			return 0, false
		}
		return price, true
	}
}

// History returns cached OHLC history, falling through to the live
// source. Feeds the technical analysis leg of the signal pipeline.
func (p *CachedPrices) History(ctx context.Context, ticker string, rangeStr string) ([]PricePoint, error) {
	var points []PricePoint
	err := p.cache.GetOrSet(ctx, redis.HistoryKey(ticker, rangeStr), &points, redis.TTLMedium, func() (interface{}, error) {
		return p.historian.History(ctx, ticker, rangeStr)
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Warm pre-fetches quotes for a set of tickers, priming the cache.
func (p *CachedPrices) Warm(ctx context.Context, tickers []string) int {
	warmed := 0
	for _, ticker := range tickers {
		if _, err := p.Quote(ctx, ticker); err != nil {
			p.logger.WithError(err).WithField("ticker", ticker).Warn("Cache warm failed")
			continue
		}
		warmed++
	}
	return warmed
}
