package capital

import (
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// FallbackUnitPrice substitutes for a missing or non-positive quote when
// sizing positions. Sizing only; it never becomes an order price.
const FallbackUnitPrice = 50.0

// MaxPositions caps the basket size by available cash.
func MaxPositions(cash float64) int {
	switch {
	case cash >= 2500:
		return 3
	case cash >= 1000:
		return 2
	default:
		return 1
	}
}

// BuildBasket converts the ranked candidate list and available cash into a
// set of share purchases. Cash is first split across the top-k candidates in
// proportion to score, then leftover cash is greedily spent one share at a
// time on the affordable candidate with the highest score (ties resolve to
// the earlier original rank). Entries that end with zero shares are dropped.
// Invariant: total spend never exceeds cash.
func BuildBasket(cash float64, ranked []contracts.RankedCandidate, prices contracts.PriceLookup) []contracts.BasketEntry {
	if len(ranked) == 0 {
		return nil
	}

	k := MaxPositions(cash)
	if len(ranked) < k {
		k = len(ranked)
	}
	selected := ranked[:k]

	totalScore := 0.0
	for _, c := range selected {
		totalScore += c.Score
	}

	basket := make([]contracts.BasketEntry, 0, k)
	spent := 0.0

	for _, c := range selected {
		// A zero unit price would break sizing and the leftover loop, so
		// non-positive lookups take the fallback even when reported ok.
		unitPrice := FallbackUnitPrice
		if p, ok := prices(c.Ticker); ok && p > 0 {
			unitPrice = p
		}

		// Zero total score yields zero target cash; no division happens.
		targetCash := 0.0
		if totalScore > 0 {
			targetCash = cash * (c.Score / totalScore)
		}

		shares := int(targetCash / unitPrice)
		if shares < 0 {
			shares = 0
		}

		basket = append(basket, contracts.BasketEntry{
			Ticker:     c.Ticker,
			AssetClass: c.AssetClass,
			Score:      c.Score,
			UnitPrice:  unitPrice,
			Shares:     shares,
			Reasons:    c.Reasons,
		})
		spent += float64(shares) * unitPrice
	}

	// Leftover redistribution: the basket is already score-descending, so a
	// strict-greater scan picks the highest score and, on ties, the earliest
	// original rank. Bounded by cash/min(unit price), so it terminates.
	remaining := cash - spent
	for {
		best := -1
		for i := range basket {
			if basket[i].UnitPrice > remaining {
				continue
			}
			if best == -1 || basket[i].Score > basket[best].Score {
				best = i
			}
		}
		if best == -1 {
			break
		}
		basket[best].Shares++
		remaining -= basket[best].UnitPrice
	}

	final := make([]contracts.BasketEntry, 0, len(basket))
	for _, e := range basket {
		if e.Shares > 0 {
			final = append(final, e)
		}
	}
	return final
}
