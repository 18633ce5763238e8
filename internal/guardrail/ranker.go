package guardrail

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/allocation"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// Mode controls how hard the guardrail filters recommendation candidates.
type Mode string

const (
	ModeStrict   Mode = "strict"   // hard-reject overweight sleeves
	ModeBalanced Mode = "balanced" // soft penalty, reject non-positive scores
	ModeOff      Mode = "off"      // pass-through, no filtering
)

// ParseMode normalizes a mode string, defaulting to strict.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBalanced:
		return ModeBalanced
	case ModeOff:
		return ModeOff
	default:
		return ModeStrict
	}
}

// WeightConfig defines the guardrail scoring weights.
type WeightConfig struct {
	OverweightThreshold float64 // strict rejection cut on positive drift
	UnderweightBoost    float64 // score per unit of underweight drift magnitude
	OverweightPenalty   float64 // balanced-mode penalty per unit of positive drift
	PreferredClassBonus float64 // flat bonus for core strategy sleeves
	CoreTickerBonus     float64 // flat bonus for core-preference tickers
}

// DefaultWeightConfig returns the default guardrail weights.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		OverweightThreshold: allocation.DriftThreshold,
		UnderweightBoost:    100.0,
		OverweightPenalty:   40.0,
		PreferredClassBonus: 3.0,
		CoreTickerBonus:     7.0,
	}
}

// DefaultCoreTickers returns the core-preference ticker set.
func DefaultCoreTickers() map[string]bool {
	return map[string]bool{
		"SAFE.TO": true,
		"VCN.TO":  true,
		"XBB.TO":  true,
		"ENB.TO":  true,
		"TD.TO":   true,
	}
}

// preferredClasses are the sleeves favored by the stated target strategy.
var preferredClasses = map[contracts.AssetClass]bool{
	contracts.AssetBonds:          true,
	contracts.AssetDomesticEquity: true,
	contracts.AssetCash:           true,
}

// Ranker filters and re-ranks recommendation candidates against allocation
// drift under a configurable guardrail policy.
type Ranker struct {
	classifier *allocation.Classifier
	calculator *allocation.Calculator
	detector   *allocation.DriftDetector
	weights    WeightConfig
	core       map[string]bool
	logger     *logger.Logger
}

// NewRanker creates a guardrail ranker.
func NewRanker(
	classifier *allocation.Classifier,
	calculator *allocation.Calculator,
	detector *allocation.DriftDetector,
	weights WeightConfig,
	coreTickers map[string]bool,
	log *logger.Logger,
) *Ranker {
	return &Ranker{
		classifier: classifier,
		calculator: calculator,
		detector:   detector,
		weights:    weights,
		core:       coreTickers,
		logger:     log,
	}
}

// Apply filters today's recommendation candidates against the current
// allocation drift. The input recommendation is never mutated.
func (r *Ranker) Apply(rec *contracts.Recommendation, holdings []contracts.Holding, mode Mode) *contracts.GuardrailReport {
	current := contracts.Allocation{}
	drift := contracts.DriftMap{}
	if len(holdings) > 0 {
		current = r.calculator.CurrentAllocation(holdings)
		drift = r.detector.Drift(current)
	}

	report := &contracts.GuardrailReport{
		Mode:              string(mode),
		CurrentAllocation: current,
		Drift:             drift,
		Ranked:            make([]contracts.RankedCandidate, 0),
		Dropped:           make([]contracts.DroppedCandidate, 0),
	}

	if mode == ModeOff {
		report.ETFs = append([]string(nil), rec.ETFs...)
		report.Stocks = append([]string(nil), rec.Stocks...)
		report.Note = "Guardrail disabled"
		return report
	}

	etfSet := make(map[string]bool, len(rec.ETFs))
	for _, raw := range rec.ETFs {
		etfSet[r.classifier.Canonicalize(raw)] = true
	}

	seen := make(map[string]bool)
	for _, raw := range rec.All() {
		ticker := r.classifier.Canonicalize(raw)
		if ticker == "" || seen[ticker] {
			continue // duplicates collapse, first occurrence wins
		}
		seen[ticker] = true

		source := "stock"
		if etfSet[ticker] {
			source = "etf"
		}

		score, class, reason := r.score(ticker, drift, mode)
		if reason != "" {
			report.Dropped = append(report.Dropped, contracts.DroppedCandidate{
				Ticker: ticker,
				Reason: reason,
			})
			continue
		}

		report.Ranked = append(report.Ranked, contracts.RankedCandidate{
			Ticker:     ticker,
			AssetClass: class,
			Score:      score,
			Source:     source,
		})
	}

	// Stable sort keeps encounter order for equal scores.
	sort.SliceStable(report.Ranked, func(i, j int) bool {
		return report.Ranked[i].Score > report.Ranked[j].Score
	})

	report.ETFs = make([]string, 0)
	report.Stocks = make([]string, 0)
	for _, c := range report.Ranked {
		if c.Source == "etf" {
			report.ETFs = append(report.ETFs, c.Ticker)
		} else {
			report.Stocks = append(report.Stocks, c.Ticker)
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"mode":    mode,
		"ranked":  len(report.Ranked),
		"dropped": len(report.Dropped),
	}).Debug("Guardrail applied")

	return report
}

// score evaluates one canonical candidate. A non-empty reason means rejection.
func (r *Ranker) score(ticker string, drift contracts.DriftMap, mode Mode) (float64, contracts.AssetClass, string) {
	class := r.classifier.Classify(ticker)
	if class == contracts.AssetUnknown {
		return 0, class, "unknown asset class"
	}

	assetDrift := drift[class]

	if mode == ModeStrict && assetDrift > r.weights.OverweightThreshold {
		return 0, class, fmt.Sprintf("overweight sleeve (%s, drift=%.1f%%)", class, assetDrift*100)
	}

	score := 0.0

	// Strongly prefer filling underweights.
	if assetDrift < 0 {
		score += math.Abs(assetDrift) * r.weights.UnderweightBoost
	} else if mode == ModeBalanced && assetDrift > 0 {
		score -= assetDrift * r.weights.OverweightPenalty
	}

	if preferredClasses[class] {
		score += r.weights.PreferredClassBonus
	}

	if r.core[ticker] {
		score += r.weights.CoreTickerBonus
	}

	if mode == ModeBalanced && score <= 0 {
		return 0, class, fmt.Sprintf("low alignment score (%.2f) in balanced mode", score)
	}

	return math.Round(score*1000) / 1000, class, ""
}
