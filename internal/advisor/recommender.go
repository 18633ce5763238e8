package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

const (
	etfSectionHeader   = "2. Stocks to Add"
	stockSectionEnd    = "3. Allocation"
	recommendTemplate  = `You are a portfolio strategist.

Create a recommendation using EXACTLY this structure.

1. ETFs to Add
- ticker — reason

2. Stocks to Add
- ticker — reason

3. Allocation Suggestion
(table style)

4. Reasoning
(bullet points)

5. Risk Considerations
(bullet points)

Summary:
(short paragraph)

Investor profile:
%s

Current holdings:
%s

Capital level:
%s

Portfolio preference note:
- Small capital, conservative to moderate risk, 1-5 year horizon
- Keep liquidity via SAFE.TO
- Prioritize balanced ETF + stocks style
- When suitable, prioritize VCN.TO and XBB.TO ETFs
- For Canadian dividend stocks, prioritize ENB.TO and TD.TO
`
)

// tickerPattern matches exchange-suffixed symbols in report text.
var tickerPattern = regexp.MustCompile(`\b[A-Z]{2,5}\.TO\b`)

// Recommender asks the text model for portfolio additions and parses
// tickers out of the structured report.
type Recommender struct {
	gen          TextGenerator
	profile      string
	capitalLevel string
	logger       *logger.Logger
}

// NewRecommender creates a recommender.
func NewRecommender(gen TextGenerator, profile, capitalLevel string, log *logger.Logger) *Recommender {
	return &Recommender{
		gen:          gen,
		profile:      profile,
		capitalLevel: capitalLevel,
		logger:       log,
	}
}

// Recommend generates a recommendation for the current holdings.
func (r *Recommender) Recommend(ctx context.Context, holdings []contracts.Holding) (*contracts.Recommendation, error) {
	prompt := fmt.Sprintf(recommendTemplate, r.profile, formatHoldings(holdings), r.capitalLevel)

	report, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("recommendation generation failed: %w", err)
	}

	etfs, stocks := ParseReport(report)

	r.logger.WithFields(map[string]interface{}{
		"etfs":   len(etfs),
		"stocks": len(stocks),
	}).Info("Generated portfolio recommendation")

	return &contracts.Recommendation{
		ETFs:   etfs,
		Stocks: stocks,
		Report: report,
	}, nil
}

// ParseReport extracts ETF and stock tickers from the sectioned
// report. ETFs come from the text before the stocks header; stocks
// from the span between the stocks header and the allocation section.
// Order of first appearance is preserved and duplicates dropped.
func ParseReport(report string) (etfs, stocks []string) {
	etfSection := report
	if idx := strings.Index(report, etfSectionHeader); idx >= 0 {
		etfSection = report[:idx]

		stockSection := report[idx+len(etfSectionHeader):]
		if end := strings.Index(stockSection, stockSectionEnd); end >= 0 {
			stockSection = stockSection[:end]
		}
		stocks = dedupe(tickerPattern.FindAllString(stockSection, -1))
	}

	etfs = dedupe(tickerPattern.FindAllString(etfSection, -1))
	return etfs, stocks
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	var out []string
	for _, t := range tickers {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func formatHoldings(holdings []contracts.Holding) string {
	if len(holdings) == 0 {
		return "(none)"
	}

	var sb strings.Builder
	for _, h := range holdings {
		fmt.Fprintf(&sb, "- %s (%.0f shares)\n", h.Ticker, h.Shares)
	}
	return sb.String()
}
