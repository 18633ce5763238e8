package contracts

// AssetClass identifies the sleeve a ticker belongs to.
type AssetClass string

const (
	AssetCash             AssetClass = "cash"
	AssetBonds            AssetClass = "bonds"
	AssetDomesticEquity   AssetClass = "domestic_equity"
	AssetForeignDeveloped AssetClass = "foreign_equity_developed"
	AssetForeignGlobal    AssetClass = "foreign_equity_global"
	AssetUnknown          AssetClass = "unknown"
)

// AssetClasses lists every known (non-unknown) asset class.
func AssetClasses() []AssetClass {
	return []AssetClass{
		AssetCash,
		AssetBonds,
		AssetDomesticEquity,
		AssetForeignDeveloped,
		AssetForeignGlobal,
	}
}

// TargetPolicy maps asset classes to target weights.
// Weights are independent targets, not exclusive shares; they need not sum to 1.
type TargetPolicy map[AssetClass]float64

// Allocation maps asset classes to current portfolio weight (0.0 ~ 1.0).
type Allocation map[AssetClass]float64

// Total returns the sum of all allocation weights.
func (a Allocation) Total() float64 {
	total := 0.0
	for _, w := range a {
		total += w
	}
	return total
}

// DriftMap maps asset classes to signed drift (actual - target).
// Positive = overweight, negative = underweight.
type DriftMap map[AssetClass]float64

// Underweights returns the underweight magnitude per asset class
// (max(0, -drift)), omitting classes that are not underweight.
func (d DriftMap) Underweights() map[AssetClass]float64 {
	under := make(map[AssetClass]float64)
	for class, drift := range d {
		if drift < 0 {
			under[class] = -drift
		}
	}
	return under
}

// Holding represents one portfolio position.
// Lifecycle is owned by the store; the engine only reads snapshots.
type Holding struct {
	Ticker   string  `json:"ticker"`
	Shares   float64 `json:"shares"`
	BuyPrice float64 `json:"buy_price"`
	BuyDate  string  `json:"buy_date"`
}

// Tickers extracts the ticker symbols from a holdings snapshot.
func Tickers(holdings []Holding) []string {
	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}
	return tickers
}
