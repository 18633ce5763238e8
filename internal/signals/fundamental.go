package signals

import "strings"

// FundamentalReport is a simplified fundamental assessment aimed at
// conservative to moderate portfolio decisions.
type FundamentalReport struct {
	Ticker  string `json:"ticker"`
	Score   int    `json:"score"` // 1-10
	Summary string `json:"summary"`
	Signal  string `json:"signal"` // bullish, neutral, bearish
}

// Rule tables keyed by base symbol (exchange suffix stripped).
var (
	defensiveETFs = map[string]bool{
		"SAFE": true, "ZAG": true, "XBB": true, "VAB": true,
	}
	equityETFs = map[string]bool{
		"XIU": true, "XAW": true, "VGG": true, "ZRE": true,
		"VCN": true, "VGRO": true, "VBAL": true,
	}
	defensiveStocks = map[string]bool{
		"BCE": true, "MRU": true, "FTS": true, "ENB": true,
		"TD": true, "BNS": true,
	}
	growthStocks = map[string]bool{
		"NVDA": true, "MSFT": true, "AAPL": true,
	}
)

// AnalyzeFundamental scores a ticker against the rule tables.
// Unknown tickers get a neutral middle score rather than an error.
func AnalyzeFundamental(ticker string) FundamentalReport {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	base := strings.TrimSuffix(normalized, ".TO")

	report := FundamentalReport{Ticker: normalized}

	switch {
	case defensiveETFs[base]:
		report.Score = 8
		report.Summary = "Defensive ETF with stable yield and low volatility."
		report.Signal = "bullish"
	case equityETFs[base]:
		report.Score = 7
		report.Summary = "Broad diversified equity exposure with solid fundamentals."
		report.Signal = "bullish"
	case defensiveStocks[base]:
		report.Score = 8
		report.Summary = "Defensive sector company with stable earnings and dividends."
		report.Signal = "bullish"
	case growthStocks[base]:
		report.Score = 7
		report.Summary = "Strong growth company with solid fundamentals, but valuation sensitive."
		report.Signal = "neutral"
	default:
		report.Score = 6
		report.Summary = "No detailed financial data available. Assume neutral fundamentals."
		report.Signal = "neutral"
	}

	return report
}
