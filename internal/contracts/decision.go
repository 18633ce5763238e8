package contracts

// Action is the terminal outcome of the capital deployment engine.
type Action string

const (
	ActionWait      Action = "WAIT"
	ActionBuy       Action = "BUY"
	ActionBuyBasket Action = "BUY_BASKET"
)

// HoldingDecision labels come from the decision-signal collaborator.
const (
	DecisionAdd   = "ADD"
	DecisionHold  = "HOLD"
	DecisionTrim  = "TRIM"
	DecisionAvoid = "AVOID"
	DecisionWait  = "WAIT"
)

// BasketEntry is one sized purchase inside a basket.
type BasketEntry struct {
	Ticker     string     `json:"ticker"`
	AssetClass AssetClass `json:"asset_class"`
	Score      float64    `json:"score"`
	UnitPrice  float64    `json:"unit_price"`
	Shares     int        `json:"shares"`
	Reasons    []string   `json:"reasons,omitempty"`
}

// Cost returns the cash consumed by this entry.
func (e *BasketEntry) Cost() float64 {
	return float64(e.Shares) * e.UnitPrice
}

// Position is the trimmed basket entry exposed on a BUY_BASKET decision.
type Position struct {
	Ticker     string     `json:"ticker"`
	Shares     int        `json:"shares"`
	AssetClass AssetClass `json:"asset_class"`
}

// Decision is the deployment decision record consumed by CLI/API layers.
// WAIT decisions carry only a reason; BUY carries Ticker/Shares; BUY_BASKET
// carries Positions. Every ranked branch attaches the top-5 candidates.
type Decision struct {
	Action    Action            `json:"action"`
	Ticker    string            `json:"ticker,omitempty"`
	Shares    int               `json:"shares,omitempty"`
	Positions []Position        `json:"positions,omitempty"`
	Reason    string            `json:"reason"`
	MatrixTop []RankedCandidate `json:"matrix_top,omitempty"`
}

// WatchDecision is a watch-action decision for a watchlist ticker.
type WatchDecision struct {
	Decision  string   `json:"decision"`
	Reasoning []string `json:"reasoning"`
}

// WatchResult pairs a free-text analysis result with its decision and
// the action mapped from the composite market signal.
type WatchResult struct {
	Result   string        `json:"result"`
	Action   string        `json:"action,omitempty"`
	Decision WatchDecision `json:"decision"`
}

// PriceLookup resolves a unit price for a ticker. The second return value
// reports whether a usable (positive) price was found.
type PriceLookup func(ticker string) (float64, bool)

// FixedPrices adapts a static map to a PriceLookup, for tests and replays.
func FixedPrices(prices map[string]float64) PriceLookup {
	return func(ticker string) (float64, bool) {
		p, ok := prices[ticker]
		return p, ok && p > 0
	}
}
