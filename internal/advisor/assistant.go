package advisor

import (
	"context"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/allocation"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/capital"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/portfolio"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/signals"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

// Assistant composes the full advisory pipeline behind one service so the
// CLI and HTTP API share identical behavior. Every method loads a fresh
// holdings/watchlist snapshot; the assistant holds no portfolio state.
type Assistant struct {
	store       store.Store
	calculator  *allocation.Calculator
	detector    *allocation.DriftDetector
	ranker      *guardrail.Ranker
	deployer    *capital.Deployer
	recommender *Recommender
	summarizer  *portfolio.Summarizer
	generator   *signals.SignalGenerator
	decisions   *signals.DecisionEngine
	prices      *market.CachedPrices
	cache       *redis.Cache
	logger      *logger.Logger
}

// NewAssistant wires the pipeline collaborators into one service.
// recommender may be nil when no text-model API key is configured;
// recommendation-dependent steps then degrade instead of failing.
func NewAssistant(
	s store.Store,
	calculator *allocation.Calculator,
	detector *allocation.DriftDetector,
	ranker *guardrail.Ranker,
	deployer *capital.Deployer,
	recommender *Recommender,
	summarizer *portfolio.Summarizer,
	generator *signals.SignalGenerator,
	decisions *signals.DecisionEngine,
	prices *market.CachedPrices,
	cache *redis.Cache,
	log *logger.Logger,
) *Assistant {
	return &Assistant{
		store:       s,
		calculator:  calculator,
		detector:    detector,
		ranker:      ranker,
		deployer:    deployer,
		recommender: recommender,
		summarizer:  summarizer,
		generator:   generator,
		decisions:   decisions,
		prices:      prices,
		cache:       cache,
		logger:      log,
	}
}

// AllocationReport is the drift analysis for the current holdings snapshot.
type AllocationReport struct {
	Holdings    []contracts.Holding    `json:"holdings"`
	Current     contracts.Allocation   `json:"current_allocation"`
	Target      contracts.TargetPolicy `json:"target_allocation"`
	Drift       contracts.DriftMap     `json:"drift"`
	Suggestions []string               `json:"suggestions"`
}

// WatchRow is one watchlist ticker with its composite signal, the
// action that signal maps to, and the entry-timing verdict.
type WatchRow struct {
	Ticker   string                  `json:"ticker"`
	Signal   signals.CompositeSignal `json:"signal"`
	Action   string                  `json:"action"`
	Decision contracts.WatchDecision `json:"decision"`
}

// DailySignals bundles the per-holding and per-watchlist analysis of one
// run. HoldingDecisions and WatchResults are the condensed maps the
// deployment matrix consumes.
type DailySignals struct {
	Holdings         []signals.HoldingDecision        `json:"holdings"`
	Watch            []WatchRow                       `json:"watch"`
	HoldingDecisions map[string]string                `json:"holding_decisions"`
	WatchResults     map[string]contracts.WatchResult `json:"watch_results"`
}

// Advice pairs a generated recommendation with its guardrail verdict.
type Advice struct {
	Recommendation *contracts.Recommendation  `json:"recommendation"`
	Guardrail      *contracts.GuardrailReport `json:"guardrail"`
}

// Summary values the current holdings against live quotes.
func (a *Assistant) Summary(ctx context.Context) (portfolio.Summary, error) {
	holdings, err := a.store.LoadHoldings(ctx)
	if err != nil {
		return portfolio.Summary{}, fmt.Errorf("load holdings: %w", err)
	}
	return a.summarizer.Build(ctx, holdings), nil
}

// Allocation computes the current allocation, its drift against the
// target policy, and rebalance suggestions.
func (a *Assistant) Allocation(ctx context.Context) (*AllocationReport, error) {
	holdings, err := a.store.LoadHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	current := a.calculator.CurrentAllocation(holdings)
	drift := a.detector.Drift(current)

	suggestions := a.detector.Suggestions(drift)
	if current[contracts.AssetUnknown] > 0 {
		suggestions = append(suggestions, "Classify unknown tickers to improve rebalance accuracy")
	}

	return &AllocationReport{
		Holdings:    holdings,
		Current:     current,
		Target:      a.detector.Target(),
		Drift:       drift,
		Suggestions: suggestions,
	}, nil
}

// DailySignals evaluates every holding and watchlist ticker. Watch
// decisions are served from cache when a scheduled refresh already
// produced them today; holdings are always evaluated live.
func (a *Assistant) DailySignals(ctx context.Context) (*DailySignals, error) {
	holdings, err := a.store.LoadHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	watchlist, err := a.store.LoadWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	result := &DailySignals{
		Holdings:         make([]signals.HoldingDecision, 0, len(holdings)),
		Watch:            make([]WatchRow, 0, len(watchlist)),
		HoldingDecisions: make(map[string]string, len(holdings)),
		WatchResults:     make(map[string]contracts.WatchResult, len(watchlist)),
	}

	for _, h := range holdings {
		decision := a.decisions.ForHolding(ctx, h.Ticker)
		result.Holdings = append(result.Holdings, decision)
		result.HoldingDecisions[h.Ticker] = decision.Decision
	}

	for _, ticker := range watchlist {
		watch := a.watchResult(ctx, ticker)
		result.Watch = append(result.Watch, watch)
		result.WatchResults[ticker] = contracts.WatchResult{
			Result:   watch.Signal.Sentiment,
			Action:   watch.Action,
			Decision: watch.Decision,
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"holdings":  len(result.Holdings),
		"watchlist": len(result.Watch),
	}).Info("Daily signals generated")

	return result, nil
}

// watchResult resolves one watchlist verdict, preferring the cached
// decision from the scheduled refresh over a live regeneration.
func (a *Assistant) watchResult(ctx context.Context, ticker string) WatchRow {
	var cached contracts.WatchResult
	found, err := a.cache.Get(ctx, redis.WatchDecisionKey(ticker), &cached)
	if err != nil {
		a.logger.WithError(err).WithField("ticker", ticker).Warn("Watch decision cache read failed")
	}
	if found {
		return WatchRow{
			Ticker:   ticker,
			Signal:   signals.CompositeSignal{Ticker: ticker, Sentiment: cached.Result},
			Action:   cached.Action,
			Decision: cached.Decision,
		}
	}

	signal := a.generator.Generate(ctx, ticker)
	return WatchRow{
		Ticker:   ticker,
		Signal:   signal,
		Action:   signals.WatchlistAction(signal.Signal),
		Decision: a.decisions.ForWatch(signal),
	}
}

// Recommend generates a portfolio recommendation and runs it through the
// allocation guardrail. Returns an error when no recommender is configured.
func (a *Assistant) Recommend(ctx context.Context, mode guardrail.Mode) (*Advice, error) {
	if a.recommender == nil {
		return nil, fmt.Errorf("recommendations unavailable: no text model configured (set GEMINI_API_KEY)")
	}

	holdings, err := a.store.LoadHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}

	rec, err := a.recommender.Recommend(ctx, holdings)
	if err != nil {
		return nil, err
	}

	return &Advice{
		Recommendation: rec,
		Guardrail:      a.ranker.Apply(rec, holdings, mode),
	}, nil
}

// Deploy runs the full pipeline and produces one terminal deployment
// decision for the given cash amount. A failed recommendation step is
// logged and degrades to an empty candidate pool rather than aborting;
// the scoring matrix still sees holdings and watchlist candidates.
func (a *Assistant) Deploy(ctx context.Context, cash float64) (contracts.Decision, error) {
	holdings, err := a.store.LoadHoldings(ctx)
	if err != nil {
		return contracts.Decision{}, fmt.Errorf("load holdings: %w", err)
	}
	watchlist, err := a.store.LoadWatchlist(ctx)
	if err != nil {
		return contracts.Decision{}, fmt.Errorf("load watchlist: %w", err)
	}

	current := a.calculator.CurrentAllocation(holdings)
	drift := contracts.DriftMap{}
	if len(holdings) > 0 {
		drift = a.detector.Drift(current)
	}

	daily, err := a.DailySignals(ctx)
	if err != nil {
		return contracts.Decision{}, err
	}

	rec := &contracts.Recommendation{}
	if a.recommender != nil {
		generated, err := a.recommender.Recommend(ctx, holdings)
		if err != nil {
			a.logger.WithError(err).Warn("Recommendation step failed, deploying without it")
		} else {
			rec = generated
		}
	}

	decision := a.deployer.Deploy(capital.DeployInput{
		Cash:             cash,
		Drift:            drift,
		Recommendation:   rec,
		Watchlist:        watchlist,
		Holdings:         holdings,
		HoldingDecisions: daily.HoldingDecisions,
		WatchResults:     daily.WatchResults,
		Prices:           a.prices.Lookup(ctx),
	})

	a.logger.WithFields(map[string]interface{}{
		"cash":   cash,
		"action": decision.Action,
	}).Info("Capital deployment decided")

	return decision, nil
}
