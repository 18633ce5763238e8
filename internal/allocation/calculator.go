package allocation

import (
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// Calculator computes the current allocation of a holdings snapshot.
type Calculator struct {
	classifier *Classifier
}

// NewCalculator creates a new allocation calculator.
func NewCalculator(classifier *Classifier) *Calculator {
	return &Calculator{classifier: classifier}
}

// CurrentAllocation derives the current allocation from a holdings snapshot.
// Each position contributes 1/n to its resolved asset class regardless of
// market value (equal weight by position count, a documented simplification).
// Unresolvable tickers accumulate under AssetUnknown. An empty snapshot
// yields an empty allocation, not an error.
func (c *Calculator) CurrentAllocation(holdings []contracts.Holding) contracts.Allocation {
	if len(holdings) == 0 {
		return contracts.Allocation{}
	}

	allocation := make(contracts.Allocation)
	weight := 1.0 / float64(len(holdings))

	for _, h := range holdings {
		_, class := c.classifier.Resolve(h.Ticker)
		allocation[class] += weight
	}

	return allocation
}
