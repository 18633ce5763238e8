package advisor

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/allocation"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/capital"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/portfolio"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/signals"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

type stubQuoter map[string]float64

func (s stubQuoter) Quote(ctx context.Context, ticker string) (float64, error) {
	price, ok := s[ticker]
	if !ok {
		return 0, fmt.Errorf("no quote for %s", ticker)
	}
	return price, nil
}

type stubHistory struct{}

func (stubHistory) History(ctx context.Context, ticker, rangeStr string) ([]market.PricePoint, error) {
	return nil, nil
}

type stubSentiment string

func (s stubSentiment) Sentiment(ctx context.Context, ticker string) (string, error) {
	return string(s), nil
}

func newTestAssistant(t *testing.T, quotes stubQuoter, gen TextGenerator) *Assistant {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.HoldingsFile = filepath.Join(dir, "holdings.json")
	cfg.Storage.WatchlistFile = filepath.Join(dir, "watchlist.json")

	log := logger.NewNop()
	jsonStore := store.NewJSONStore(cfg, log)

	classifier := allocation.NewClassifier(allocation.DefaultAssetClassMap())
	calculator := allocation.NewCalculator(classifier)
	detector := allocation.NewDriftDetector(allocation.DefaultTargetPolicy())

	ranker := guardrail.NewRanker(classifier, calculator, detector,
		guardrail.DefaultWeightConfig(), guardrail.DefaultCoreTickers(), log)
	deployer := capital.NewDeployer(
		capital.NewScorer(classifier, capital.DefaultScoreWeights()), log)

	technical := signals.NewTechnicalAnalyzer(stubHistory{}, log)
	sentiment := stubSentiment("neutral outlook")
	generator := signals.NewSignalGenerator(technical, sentiment, log)
	decisions := signals.NewDecisionEngine(technical, sentiment, log)

	redisClient, err := redis.New(&config.Config{})
	require.NoError(t, err)
	cache := redis.NewCache(redisClient, "advisor")
	prices := market.NewCachedPrices(quotes, stubHistory{}, cache, log)

	var recommender *Recommender
	if gen != nil {
		recommender = NewRecommender(gen, "balanced", "small", log)
	}

	return NewAssistant(jsonStore, calculator, detector, ranker, deployer,
		recommender, portfolio.NewSummarizer(quotes, log),
		generator, decisions, prices, cache, log)
}

func seedPortfolio(t *testing.T, a *Assistant, holdings []contracts.Holding, watchlist []string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.store.SaveHoldings(ctx, holdings))
	require.NoError(t, a.store.SaveWatchlist(ctx, watchlist))
}

func TestAssistant_SummaryAndAllocation(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{"XBB.TO": 28.0, "TD.TO": 90.0}, nil)
	seedPortfolio(t, a, []contracts.Holding{
		{Ticker: "XBB.TO", Shares: 10, BuyPrice: 25},
		{Ticker: "TD.TO", Shares: 2, BuyPrice: 100},
	}, nil)

	summary, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 460.0, summary.TotalValue)

	report, err := a.Allocation(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Current[contracts.AssetBonds], 1e-9)
	assert.InDelta(t, 0.5, report.Current[contracts.AssetDomesticEquity], 1e-9)
	// Bonds 0.50 vs 0.25 target and cash 0 vs 0.20 both exceed the threshold.
	assert.InDelta(t, 0.25, report.Drift[contracts.AssetBonds], 1e-9)
	assert.InDelta(t, -0.20, report.Drift[contracts.AssetCash], 1e-9)
	assert.NotEmpty(t, report.Suggestions)
}

func TestAssistant_AllocationFlagsUnknownTickers(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{}, nil)
	seedPortfolio(t, a, []contracts.Holding{
		{Ticker: "XBB.TO", Shares: 10},
		{Ticker: "ZZZZ.TO", Shares: 1},
	}, nil)

	report, err := a.Allocation(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.Current[contracts.AssetUnknown], 1e-9)
	assert.Contains(t, report.Suggestions, "Classify unknown tickers to improve rebalance accuracy")
}

func TestAssistant_AllocationEmptyPortfolio(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{}, nil)

	report, err := a.Allocation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Holdings)
	assert.Empty(t, report.Current)
	// Every sleeve shows as underweight against the target.
	assert.InDelta(t, -0.20, report.Drift[contracts.AssetCash], 1e-9)
}

func TestAssistant_DailySignals(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{}, nil)
	seedPortfolio(t, a, []contracts.Holding{
		{Ticker: "XBB.TO", Shares: 10},
	}, []string{"VCN.TO"})

	daily, err := a.DailySignals(context.Background())
	require.NoError(t, err)

	require.Len(t, daily.Holdings, 1)
	// No price history means no technical override; fundamentals and
	// neutral sentiment leave the default HOLD.
	assert.Equal(t, contracts.DecisionHold, daily.HoldingDecisions["XBB.TO"])

	require.Len(t, daily.Watch, 1)
	watch, ok := daily.WatchResults["VCN.TO"]
	require.True(t, ok)
	assert.Equal(t, "Monitor", watch.Decision.Decision)
	assert.Equal(t, "neutral outlook", watch.Result)
	// A HOLD composite signal maps to a WAIT watchlist action.
	assert.Equal(t, "WAIT", watch.Action)
	assert.Equal(t, "WAIT", daily.Watch[0].Action)
}

func TestAssistant_RecommendWithoutModel(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{}, nil)

	_, err := a.Recommend(context.Background(), guardrail.ModeStrict)
	assert.Error(t, err)
}

func TestAssistant_Recommend(t *testing.T) {
	gen := &fakeGenerator{response: sampleReport}
	a := newTestAssistant(t, stubQuoter{}, gen)
	seedPortfolio(t, a, []contracts.Holding{
		{Ticker: "TD.TO", Shares: 2, BuyPrice: 100},
	}, nil)

	advice, err := a.Recommend(context.Background(), guardrail.ModeStrict)
	require.NoError(t, err)
	assert.NotEmpty(t, advice.Recommendation.ETFs)
	assert.Equal(t, string(guardrail.ModeStrict), advice.Guardrail.Mode)
}

func TestAssistant_DeployNoCash(t *testing.T) {
	a := newTestAssistant(t, stubQuoter{}, nil)

	decision, err := a.Deploy(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Equal(t, "No available cash to deploy", decision.Reason)
}

func TestAssistant_DeployEmptyPortfolioBuysUnderweights(t *testing.T) {
	// An empty portfolio still has drift against the target policy, so
	// watchlist candidates in underweight sleeves can be bought.
	a := newTestAssistant(t, stubQuoter{"SAFE.TO": 50.0}, nil)
	seedPortfolio(t, a, nil, []string{"SAFE.TO"})

	decision, err := a.Deploy(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Equal(t, "No allocation drift data", decision.Reason)
}

func TestAssistant_DeployBuysBasket(t *testing.T) {
	quotes := stubQuoter{"XBB.TO": 28.0, "TD.TO": 90.0, "SAFE.TO": 50.0, "VCN.TO": 40.0}
	a := newTestAssistant(t, quotes, nil)
	seedPortfolio(t, a, []contracts.Holding{
		{Ticker: "XBB.TO", Shares: 10, BuyPrice: 25},
		{Ticker: "TD.TO", Shares: 2, BuyPrice: 100},
	}, []string{"SAFE.TO", "VCN.TO"})

	decision, err := a.Deploy(context.Background(), 500)
	require.NoError(t, err)

	// Cash and foreign sleeves are underweight; the watchlist offers a
	// cash candidate, so the matrix must produce a buy of some form.
	assert.Contains(t, []contracts.Action{contracts.ActionBuy, contracts.ActionBuyBasket}, decision.Action)
	assert.NotEmpty(t, decision.MatrixTop)
}
