package capital

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/allocation"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// ScoreWeights defines the multi-factor candidate scoring weights.
type ScoreWeights struct {
	RebalanceBoost  float64 // score per unit of underweight magnitude
	RecommendBonus  float64 // candidate appears in today's recommendations
	WatchlistBonus  float64 // candidate is on the watchlist
}

// DefaultScoreWeights returns the default scoring weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		RebalanceBoost: 20.0,
		RecommendBonus: 3.0,
		WatchlistBonus: 2.0,
	}
}

// holdingDecisionWeights maps holding-decision labels to score deltas.
// Labels are matched exactly after uppercasing.
var holdingDecisionWeights = map[string]float64{
	contracts.DecisionAdd:   4.0,
	contracts.DecisionHold:  1.0,
	contracts.DecisionTrim:  -4.0,
	contracts.DecisionAvoid: -4.0,
	contracts.DecisionWait:  -4.0,
}

// watchActionRule matches a free-text watch decision by case-insensitive
// substring containment. Rules are checked in order; first match wins.
type watchActionRule struct {
	Substring string
	Weight    float64
}

var watchActionRules = []watchActionRule{
	{"consider entry", 3.0},
	{"watch breakout", 2.0},
	{"monitor", 1.0},
	{"wait", -1.0},
}

// Scorer builds the unified multi-factor score per candidate ticker.
type Scorer struct {
	classifier *allocation.Classifier
	weights    ScoreWeights
}

// NewScorer creates a candidate scorer.
func NewScorer(classifier *allocation.Classifier, weights ScoreWeights) *Scorer {
	return &Scorer{classifier: classifier, weights: weights}
}

// ScoreInput is the fully materialized snapshot the scorer works on.
type ScoreInput struct {
	Underweights     map[contracts.AssetClass]float64
	Recommendation   *contracts.Recommendation
	Watchlist        []string
	Holdings         []contracts.Holding
	HoldingDecisions map[string]string
	WatchResults     map[string]contracts.WatchResult
}

// Score builds the candidate universe (holdings, recommendations, watchlist,
// decision maps) and scores every ticker whose asset class is underweight.
// Only strictly positive scores survive; the result is sorted score-descending
// with lexicographic ticker order breaking ties (deterministic output).
func (s *Scorer) Score(input ScoreInput) []contracts.RankedCandidate {
	recSet := make(map[string]bool)
	if input.Recommendation != nil {
		for _, t := range input.Recommendation.All() {
			if c := s.classifier.Canonicalize(t); c != "" {
				recSet[c] = true
			}
		}
	}

	watchSet := make(map[string]bool)
	for _, t := range input.Watchlist {
		if c := s.classifier.Canonicalize(t); c != "" {
			watchSet[c] = true
		}
	}

	holdingDecisions := make(map[string]string)
	for t, decision := range input.HoldingDecisions {
		if c := s.classifier.Canonicalize(t); c != "" {
			holdingDecisions[c] = decision
		}
	}

	watchDecisions := make(map[string]string)
	for t, res := range input.WatchResults {
		if c := s.classifier.Canonicalize(t); c != "" {
			watchDecisions[c] = res.Decision.Decision
		}
	}

	universe := make(map[string]bool)
	for _, h := range input.Holdings {
		if c := s.classifier.Canonicalize(h.Ticker); c != "" {
			universe[c] = true
		}
	}
	for t := range recSet {
		universe[t] = true
	}
	for t := range watchSet {
		universe[t] = true
	}
	for t := range holdingDecisions {
		universe[t] = true
	}
	for t := range watchDecisions {
		universe[t] = true
	}

	// Sorted iteration keeps scoring deterministic over the map-backed universe.
	tickers := make([]string, 0, len(universe))
	for t := range universe {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	scored := make([]contracts.RankedCandidate, 0, len(tickers))

	for _, ticker := range tickers {
		class := s.classifier.Classify(ticker)
		underweight := input.Underweights[class]
		if underweight <= 0 {
			continue // not underweight: the score is never computed
		}

		score := 0.0
		reasons := make([]string, 0, 5)

		rebalancePoints := underweight * s.weights.RebalanceBoost
		score += rebalancePoints
		reasons = append(reasons, fmt.Sprintf("rebalance(%s) +%.2f", class, rebalancePoints))

		if recSet[ticker] {
			score += s.weights.RecommendBonus
			reasons = append(reasons, fmt.Sprintf("recommended +%.1f", s.weights.RecommendBonus))
		}

		if watchSet[ticker] {
			score += s.weights.WatchlistBonus
			reasons = append(reasons, fmt.Sprintf("watchlist +%.1f", s.weights.WatchlistBonus))
		}

		if decision, ok := holdingDecisions[ticker]; ok {
			if points := holdingDecisionWeight(decision); points != 0 {
				score += points
				reasons = append(reasons, fmt.Sprintf("holdings_decision %s %+.1f", decision, points))
			}
		}

		if decision, ok := watchDecisions[ticker]; ok {
			if points := watchActionWeight(decision); points != 0 {
				score += points
				reasons = append(reasons, fmt.Sprintf("watch_action %s %+.1f", decision, points))
			}
		}

		if score > 0 {
			scored = append(scored, contracts.RankedCandidate{
				Ticker:     ticker,
				AssetClass: class,
				Score:      math.Round(score*1000) / 1000,
				Reasons:    reasons,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// holdingDecisionWeight resolves the score delta for a holding-decision label.
func holdingDecisionWeight(decision string) float64 {
	return holdingDecisionWeights[strings.ToUpper(strings.TrimSpace(decision))]
}

// watchActionWeight resolves the score delta for a free-text watch action.
func watchActionWeight(decision string) float64 {
	action := strings.ToLower(decision)
	for _, rule := range watchActionRules {
		if strings.Contains(action, rule.Substring) {
			return rule.Weight
		}
	}
	return 0
}
