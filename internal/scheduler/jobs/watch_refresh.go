package jobs

import (
	"context"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/signals"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

// WatchRefreshJob re-evaluates watch decisions for every watchlist
// ticker and caches them for the deploy engine and API.
type WatchRefreshJob struct {
	store     store.Store
	generator *signals.SignalGenerator
	engine    *signals.DecisionEngine
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewWatchRefreshJob creates the watch-decision refresh job.
func NewWatchRefreshJob(s store.Store, generator *signals.SignalGenerator, engine *signals.DecisionEngine, cache *redis.Cache, log *logger.Logger) *WatchRefreshJob {
	return &WatchRefreshJob{
		store:     s,
		generator: generator,
		engine:    engine,
		cache:     cache,
		logger:    log,
	}
}

// Name returns the job name.
func (j *WatchRefreshJob) Name() string {
	return "watch-decision-refresh"
}

// Schedule runs weekdays at 09:00 server time.
func (j *WatchRefreshJob) Schedule() string {
	return "0 0 9 * * MON-FRI"
}

// Run refreshes the cached watch decision for each watchlist ticker.
// Per-ticker failures are logged and skipped so one bad symbol does
// not block the rest.
func (j *WatchRefreshJob) Run(ctx context.Context) error {
	watchlist, err := j.store.LoadWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	refreshed := 0
	for _, ticker := range watchlist {
		signal := j.generator.Generate(ctx, ticker)
		decision := j.engine.ForWatch(signal)

		result := contracts.WatchResult{
			Result:   signal.Sentiment,
			Action:   signals.WatchlistAction(signal.Signal),
			Decision: decision,
		}

		if err := j.cache.Set(ctx, redis.WatchDecisionKey(ticker), result, redis.TTLDaily); err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to cache watch decision")
			continue
		}
		refreshed++
	}

	j.logger.WithFields(map[string]interface{}{
		"watchlist": len(watchlist),
		"refreshed": refreshed,
	}).Info("Watch decisions refreshed")

	return nil
}
