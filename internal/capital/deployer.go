package capital

import (
	"fmt"
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// unlimitedCash is used only to surface the cheapest candidate price when a
// real basket cannot be afforded.
const unlimitedCash = 1e9

// Deployer turns available cash plus a drift snapshot into one terminal
// deployment decision. Pure and single-pass: identical inputs produce
// identical decisions, and every failure degrades to WAIT with a reason.
type Deployer struct {
	scorer *Scorer
	logger *logger.Logger
}

// NewDeployer creates a capital deployer.
func NewDeployer(scorer *Scorer, log *logger.Logger) *Deployer {
	return &Deployer{scorer: scorer, logger: log}
}

// DeployInput is the fully materialized snapshot for one deployment decision.
type DeployInput struct {
	Cash             float64
	Drift            contracts.DriftMap
	Recommendation   *contracts.Recommendation
	Watchlist        []string
	Holdings         []contracts.Holding
	HoldingDecisions map[string]string
	WatchResults     map[string]contracts.WatchResult
	Prices           contracts.PriceLookup
}

// Deploy runs the capital deployment state machine. All branches are terminal.
func (d *Deployer) Deploy(input DeployInput) contracts.Decision {
	if input.Cash <= 0 {
		return contracts.Decision{
			Action: contracts.ActionWait,
			Reason: "No available cash to deploy",
		}
	}

	if len(input.Drift) == 0 {
		return contracts.Decision{
			Action: contracts.ActionWait,
			Reason: "No allocation drift data",
		}
	}

	underweights := input.Drift.Underweights()
	if len(underweights) == 0 {
		return contracts.Decision{
			Action: contracts.ActionWait,
			Reason: "No underweight assets from rebalance analysis",
		}
	}

	ranked := d.scorer.Score(ScoreInput{
		Underweights:     underweights,
		Recommendation:   input.Recommendation,
		Watchlist:        input.Watchlist,
		Holdings:         input.Holdings,
		HoldingDecisions: input.HoldingDecisions,
		WatchResults:     input.WatchResults,
	})
	if len(ranked) == 0 {
		return contracts.Decision{
			Action: contracts.ActionWait,
			Reason: "No positive-scoring ticker matched rebalance + holdings/watchlist/recommendation criteria",
		}
	}

	prices := input.Prices
	if prices == nil {
		prices = func(string) (float64, bool) { return 0, false }
	}

	basket := BuildBasket(input.Cash, ranked, prices)
	if len(basket) == 0 {
		return contracts.Decision{
			Action:    contracts.ActionWait,
			Reason:    fmt.Sprintf("Insufficient cash to buy any selected ticker (min estimated price %.2f)", d.minViablePrice(ranked, prices)),
			MatrixTop: topN(ranked, 5),
		}
	}

	d.logger.WithFields(map[string]interface{}{
		"cash":       input.Cash,
		"candidates": len(ranked),
		"positions":  len(basket),
	}).Info("Capital deployment basket built")

	if len(basket) == 1 {
		pick := basket[0]
		return contracts.Decision{
			Action: contracts.ActionBuy,
			Ticker: pick.Ticker,
			Shares: pick.Shares,
			Reason: fmt.Sprintf("Top matrix score for %s with multi-factor alignment: %s",
				pick.AssetClass, strings.Join(pick.Reasons, "; ")),
			MatrixTop: topN(ranked, 5),
		}
	}

	positions := make([]contracts.Position, 0, len(basket))
	for _, e := range basket {
		positions = append(positions, contracts.Position{
			Ticker:     e.Ticker,
			Shares:     e.Shares,
			AssetClass: e.AssetClass,
		})
	}

	return contracts.Decision{
		Action:    contracts.ActionBuyBasket,
		Positions: positions,
		Reason:    "Basket built from multi-factor matrix: rebalance underweights + holdings decisions + watchlist signals + today's recommendations",
		MatrixTop: topN(ranked, 5),
	}
}

// minViablePrice re-runs basket construction with effectively unlimited cash,
// purely to report the cheapest selected candidate's unit price.
func (d *Deployer) minViablePrice(ranked []contracts.RankedCandidate, prices contracts.PriceLookup) float64 {
	min := 0.0
	for _, e := range BuildBasket(unlimitedCash, ranked, prices) {
		if min == 0 || e.UnitPrice < min {
			min = e.UnitPrice
		}
	}
	return min
}

// topN returns the first n ranked candidates for decision transparency.
func topN(ranked []contracts.RankedCandidate, n int) []contracts.RankedCandidate {
	if len(ranked) < n {
		n = len(ranked)
	}
	return ranked[:n]
}
