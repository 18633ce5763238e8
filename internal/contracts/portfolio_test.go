package contracts

import (
	"testing"
)

func TestAllocation_Total(t *testing.T) {
	allocation := Allocation{
		AssetCash:  0.20,
		AssetBonds: 0.25,
	}

	if total := allocation.Total(); total != 0.45 {
		t.Errorf("Total() = %v, want 0.45", total)
	}
}

func TestDriftMap_Underweights(t *testing.T) {
	drift := DriftMap{
		AssetCash:           -0.20,
		AssetBonds:          0.25,
		AssetDomesticEquity: 0.0,
	}

	under := drift.Underweights()

	if len(under) != 1 {
		t.Fatalf("Underweights() returned %d classes, want 1", len(under))
	}
	if under[AssetCash] != 0.20 {
		t.Errorf("Underweights()[cash] = %v, want 0.20", under[AssetCash])
	}
}

func TestTickers(t *testing.T) {
	holdings := []Holding{
		{Ticker: "XBB.TO", Shares: 10},
		{Ticker: "TD.TO", Shares: 2},
	}

	tickers := Tickers(holdings)
	if len(tickers) != 2 || tickers[0] != "XBB.TO" || tickers[1] != "TD.TO" {
		t.Errorf("Tickers() = %v, want [XBB.TO TD.TO]", tickers)
	}
}

func TestRecommendation_All(t *testing.T) {
	rec := &Recommendation{
		ETFs:   []string{"VCN.TO", "XBB.TO"},
		Stocks: []string{"TD.TO"},
	}

	all := rec.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d tickers, want 3", len(all))
	}
	if all[0] != "VCN.TO" || all[2] != "TD.TO" {
		t.Errorf("All() = %v, ETFs must come first", all)
	}
}

func TestFixedPrices(t *testing.T) {
	lookup := FixedPrices(map[string]float64{
		"SAFE.TO": 50.0,
		"BAD.TO":  0,
	})

	if price, ok := lookup("SAFE.TO"); !ok || price != 50.0 {
		t.Errorf("lookup(SAFE.TO) = %v, %v; want 50, true", price, ok)
	}
	if _, ok := lookup("BAD.TO"); ok {
		t.Error("lookup(BAD.TO) must report ok=false for non-positive prices")
	}
	if _, ok := lookup("MISSING.TO"); ok {
		t.Error("lookup(MISSING.TO) must report ok=false")
	}
}

func TestBasketEntry_Cost(t *testing.T) {
	entry := &BasketEntry{UnitPrice: 27.5, Shares: 4}
	if cost := entry.Cost(); cost != 110.0 {
		t.Errorf("Cost() = %v, want 110", cost)
	}
}
