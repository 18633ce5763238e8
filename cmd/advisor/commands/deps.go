package commands

import (
	"context"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/advisor"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/allocation"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/capital"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/portfolio"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/signals"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/database"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

// deps bundles the wired collaborators every command shares.
type deps struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	store     store.Store
	manager   *store.WatchlistManager
	cache     *redis.Cache
	prices    *market.CachedPrices
	generator *signals.SignalGenerator
	decisions *signals.DecisionEngine
	assistant *advisor.Assistant
}

// initDeps loads config and wires the full pipeline. The returned
// cleanup closes the database and Redis connections.
func initDeps(ctx context.Context) (*deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	// Storage backend
	var (
		db *database.DB
		st store.Store
	)
	switch cfg.Storage.Backend {
	case "postgres":
		db, err = database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		pgStore := store.NewPostgresStore(db.Pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		st = pgStore
	default:
		st = store.NewJSONStore(cfg, log)
	}

	// Redis (no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "advisor")

	// Market data
	marketClient := market.NewClient(cfg, log)
	prices := market.NewCachedPrices(marketClient, marketClient, cache, log)

	// Text model; optional, the pipeline degrades without it
	var (
		recommender *advisor.Recommender
		sentiment   signals.SentimentSource
	)
	if cfg.Gemini.APIKey != "" {
		gemini, err := advisor.NewGemini(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Text model unavailable, continuing without it")
		} else {
			recommender = advisor.NewRecommender(gemini, cfg.Advisor.InvestorProfile, cfg.Advisor.CapitalLevel, log)
			sentiment = advisor.NewSentimentAnalyzer(gemini, cache, log)
		}
	}

	// Analysis pipeline
	classifier := allocation.NewClassifier(allocation.DefaultAssetClassMap())
	calculator := allocation.NewCalculator(classifier)
	detector := allocation.NewDriftDetector(allocation.DefaultTargetPolicy())
	ranker := guardrail.NewRanker(classifier, calculator, detector,
		guardrail.DefaultWeightConfig(), guardrail.DefaultCoreTickers(), log)
	deployer := capital.NewDeployer(capital.NewScorer(classifier, capital.DefaultScoreWeights()), log)

	technical := signals.NewTechnicalAnalyzer(prices, log)
	generator := signals.NewSignalGenerator(technical, sentiment, log)
	decisions := signals.NewDecisionEngine(technical, sentiment, log)

	summarizer := portfolio.NewSummarizer(prices, log)

	assistant := advisor.NewAssistant(st, calculator, detector, ranker, deployer,
		recommender, summarizer, generator, decisions, prices, cache, log)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Warn("Redis close failed")
		}
		if db != nil {
			db.Close()
		}
	}

	return &deps{
		cfg:       cfg,
		log:       log,
		db:        db,
		store:     st,
		manager:   store.NewWatchlistManager(st),
		cache:     cache,
		prices:    prices,
		generator: generator,
		decisions: decisions,
		assistant: assistant,
	}, cleanup, nil
}
