package capital

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

func newTestDeployer() *Deployer {
	return NewDeployer(newTestScorer(), logger.NewNop())
}

func TestDeployer_NoCash(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{Cash: 0})
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Equal(t, "No available cash to deploy", decision.Reason)

	decision = d.Deploy(DeployInput{Cash: -50})
	assert.Equal(t, contracts.ActionWait, decision.Action)
}

func TestDeployer_NoDriftData(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{Cash: 1000})
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Equal(t, "No allocation drift data", decision.Reason)
}

func TestDeployer_NoUnderweightAssets(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{
		Cash: 1000,
		Drift: contracts.DriftMap{
			contracts.AssetBonds: 0.10,
			contracts.AssetCash:  0.0,
		},
	})
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Equal(t, "No underweight assets from rebalance analysis", decision.Reason)
}

func TestDeployer_NoPositiveCandidates(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{
		Cash: 1000,
		Drift: contracts.DriftMap{
			contracts.AssetBonds: -0.10,
		},
		// Universe holds only a domestic ticker, whose sleeve is not underweight.
		Watchlist: []string{"TD.TO"},
	})
	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Contains(t, decision.Reason, "No positive-scoring ticker")
}

func TestDeployer_InsufficientCashReportsMinPrice(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{
		Cash:      100,
		Drift:     contracts.DriftMap{contracts.AssetForeignDeveloped: -0.10},
		Watchlist: []string{"VTI"},
		Prices:    contracts.FixedPrices(map[string]float64{"VTI": 289}),
	})

	assert.Equal(t, contracts.ActionWait, decision.Action)
	assert.Contains(t, decision.Reason, "Insufficient cash")
	assert.Contains(t, decision.Reason, "289.00")
	assert.NotEmpty(t, decision.MatrixTop)
}

func TestDeployer_SinglePositionBuy(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{
		Cash:      500,
		Drift:     contracts.DriftMap{contracts.AssetBonds: -0.25},
		Watchlist: []string{"XBB.TO"},
		Prices:    contracts.FixedPrices(map[string]float64{"XBB.TO": 28}),
	})

	require.Equal(t, contracts.ActionBuy, decision.Action)
	assert.Equal(t, "XBB.TO", decision.Ticker)
	assert.Equal(t, 17, decision.Shares) // floor(500/28) = 17
	assert.Contains(t, decision.Reason, "Top matrix score for bonds")
	assert.Contains(t, decision.Reason, "rebalance(bonds)")
	require.Len(t, decision.MatrixTop, 1)
}

func TestDeployer_BasketBuy(t *testing.T) {
	d := newTestDeployer()

	// Scenario: cash=1000 caps at two positions; two equal-score bond
	// candidates at 40 and 60 both get selected and fully sized.
	decision := d.Deploy(DeployInput{
		Cash:  1000,
		Drift: contracts.DriftMap{contracts.AssetBonds: -0.5},
		Holdings: []contracts.Holding{
			{Ticker: "XBB.TO"},
			{Ticker: "ZAG.TO"},
		},
		Prices: contracts.FixedPrices(map[string]float64{
			"XBB.TO": 40,
			"ZAG.TO": 60,
		}),
	})

	require.Equal(t, contracts.ActionBuyBasket, decision.Action)
	require.Len(t, decision.Positions, 2)
	assert.Equal(t, "XBB.TO", decision.Positions[0].Ticker)
	assert.Equal(t, 13, decision.Positions[0].Shares)
	assert.Equal(t, "ZAG.TO", decision.Positions[1].Ticker)
	assert.Equal(t, 8, decision.Positions[1].Shares)
	assert.NotEmpty(t, decision.MatrixTop)
}

func TestDeployer_MatrixTopCappedAtFive(t *testing.T) {
	d := newTestDeployer()

	decision := d.Deploy(DeployInput{
		Cash: 5000,
		Drift: contracts.DriftMap{
			contracts.AssetBonds:           -0.25,
			contracts.AssetDomesticEquity:  -0.20,
			contracts.AssetForeignGlobal:   -0.10,
			contracts.AssetForeignDeveloped: -0.10,
		},
		Watchlist: []string{"XBB.TO", "ZAG.TO", "VAB.TO", "TD.TO", "ENB.TO", "XAW.TO", "VTI"},
		Prices: contracts.FixedPrices(map[string]float64{
			"XBB.TO": 28, "ZAG.TO": 14, "VAB.TO": 24,
			"TD.TO": 85, "ENB.TO": 48, "XAW.TO": 38, "VTI": 289,
		}),
	})

	assert.Len(t, decision.MatrixTop, 5)
}

func TestDeployer_Deterministic(t *testing.T) {
	d := newTestDeployer()

	input := DeployInput{
		Cash: 2600,
		Drift: contracts.DriftMap{
			contracts.AssetBonds:         -0.25,
			contracts.AssetForeignGlobal: -0.10,
		},
		Recommendation: &contracts.Recommendation{ETFs: []string{"XBB.TO", "XAW.TO"}},
		Watchlist:      []string{"ZAG.TO"},
		HoldingDecisions: map[string]string{
			"XBB.TO": "ADD",
		},
		WatchResults: map[string]contracts.WatchResult{
			"ZAG.TO": {Decision: contracts.WatchDecision{Decision: "Monitor"}},
		},
		Prices: contracts.FixedPrices(map[string]float64{
			"XBB.TO": 28, "ZAG.TO": 14, "XAW.TO": 38,
		}),
	}

	first := d.Deploy(input)
	second := d.Deploy(input)
	assert.Equal(t, first, second)
}
