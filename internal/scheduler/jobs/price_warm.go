package jobs

import (
	"context"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// PriceWarmJob pre-fetches quotes for holdings and watchlist tickers
// before market hours so the first CLI/API calls of the day hit cache.
type PriceWarmJob struct {
	store  store.Store
	prices *market.CachedPrices
	logger *logger.Logger
}

// NewPriceWarmJob creates the price warm-up job.
func NewPriceWarmJob(s store.Store, prices *market.CachedPrices, log *logger.Logger) *PriceWarmJob {
	return &PriceWarmJob{
		store:  s,
		prices: prices,
		logger: log,
	}
}

// Name returns the job name.
func (j *PriceWarmJob) Name() string {
	return "price-cache-warm"
}

// Schedule runs weekdays at 09:15 server time, before the open.
func (j *PriceWarmJob) Schedule() string {
	return "0 15 9 * * MON-FRI"
}

// Run warms quotes for every tracked ticker.
func (j *PriceWarmJob) Run(ctx context.Context) error {
	holdings, err := j.store.LoadHoldings(ctx)
	if err != nil {
		return fmt.Errorf("load holdings: %w", err)
	}
	watchlist, err := j.store.LoadWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	tickers := uniqueTickers(contracts.Tickers(holdings), watchlist)
	if len(tickers) == 0 {
		j.logger.Info("No tickers to warm")
		return nil
	}

	warmed := j.prices.Warm(ctx, tickers)
	j.logger.WithFields(map[string]interface{}{
		"requested": len(tickers),
		"warmed":    warmed,
	}).Info("Price cache warmed")

	return nil
}

func uniqueTickers(groups ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range groups {
		for _, t := range group {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
