package contracts

// Recommendation is the output of the recommendation collaborator:
// extracted ETF/stock tickers plus the free-text report they came from.
type Recommendation struct {
	ETFs   []string `json:"etfs"`
	Stocks []string `json:"stocks"`
	Report string   `json:"report"`
}

// All returns ETF and stock tickers in encounter order (ETFs first).
func (r *Recommendation) All() []string {
	all := make([]string, 0, len(r.ETFs)+len(r.Stocks))
	all = append(all, r.ETFs...)
	all = append(all, r.Stocks...)
	return all
}

// RankedCandidate is a candidate ticker that survived filtering,
// with its accumulated score and itemized scoring reasons.
type RankedCandidate struct {
	Ticker     string     `json:"ticker"`
	AssetClass AssetClass `json:"asset_class"`
	Score      float64    `json:"score"`
	Source     string     `json:"source,omitempty"` // "etf" or "stock" for guardrail candidates
	Reasons    []string   `json:"reasons,omitempty"`
}

// DroppedCandidate is a candidate rejected by the guardrail,
// with a human-readable rejection reason.
type DroppedCandidate struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// GuardrailReport bundles the guardrail outcome for presentation layers.
type GuardrailReport struct {
	Mode              string             `json:"mode"`
	CurrentAllocation Allocation         `json:"current_allocation"`
	Drift             DriftMap           `json:"drift"`
	Ranked            []RankedCandidate  `json:"ranked"`
	Dropped           []DroppedCandidate `json:"dropped"`
	ETFs              []string           `json:"etfs"`
	Stocks            []string           `json:"stocks"`
	Note              string             `json:"note,omitempty"`
}
