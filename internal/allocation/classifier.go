package allocation

import (
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// Classifier maps ticker symbols to asset classes.
// The table is static configuration injected at construction; classification
// is a total function defaulting to AssetUnknown.
type Classifier struct {
	classes        map[string]contracts.AssetClass
	domesticSuffix string
}

// NewClassifier creates a classifier over the given ticker table.
func NewClassifier(classes map[string]contracts.AssetClass) *Classifier {
	table := make(map[string]contracts.AssetClass, len(classes))
	for ticker, class := range classes {
		table[strings.ToUpper(strings.TrimSpace(ticker))] = class
	}
	return &Classifier{
		classes:        table,
		domesticSuffix: ".TO",
	}
}

// DefaultAssetClassMap returns the built-in ticker table.
func DefaultAssetClassMap() map[string]contracts.AssetClass {
	return map[string]contracts.AssetClass{
		// Cash / HISA ETFs
		"SAFE.TO": contracts.AssetCash,
		"CASH.TO": contracts.AssetCash,

		// Bonds
		"ZAG.TO": contracts.AssetBonds,
		"VAB.TO": contracts.AssetBonds,
		"XBB.TO": contracts.AssetBonds,

		// Domestic equity
		"XIU.TO": contracts.AssetDomesticEquity,
		"VCN.TO": contracts.AssetDomesticEquity,
		"BCE.TO": contracts.AssetDomesticEquity,
		"ENB.TO": contracts.AssetDomesticEquity,
		"TD.TO":  contracts.AssetDomesticEquity,
		"BNS.TO": contracts.AssetDomesticEquity,
		"FTS.TO": contracts.AssetDomesticEquity,

		// Developed foreign equity
		"VTI":    contracts.AssetForeignDeveloped,
		"XUU.TO": contracts.AssetForeignDeveloped,

		// Global equity
		"XAW.TO":  contracts.AssetForeignGlobal,
		"XEQT.TO": contracts.AssetForeignGlobal,
		"VGRO.TO": contracts.AssetForeignGlobal,
		"VBAL.TO": contracts.AssetForeignGlobal,
	}
}

// Classify returns the asset class for a canonical ticker.
func (c *Classifier) Classify(ticker string) contracts.AssetClass {
	if class, ok := c.classes[strings.ToUpper(strings.TrimSpace(ticker))]; ok {
		return class
	}
	return contracts.AssetUnknown
}

// Canonicalize normalizes a ticker to uppercase/trimmed form and resolves
// bare domestic symbols: a suffix-less symbol unknown to the table is retried
// with the domestic suffix, and the suffixed form is adopted only when it
// resolves to a known class.
func (c *Classifier) Canonicalize(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return ""
	}

	if _, ok := c.classes[ticker]; ok {
		return ticker
	}

	if !strings.Contains(ticker, ".") {
		suffixed := ticker + c.domesticSuffix
		if _, ok := c.classes[suffixed]; ok {
			return suffixed
		}
	}

	return ticker
}

// Resolve canonicalizes the ticker and classifies it in one step.
func (c *Classifier) Resolve(ticker string) (string, contracts.AssetClass) {
	canonical := c.Canonicalize(ticker)
	if canonical == "" {
		return "", contracts.AssetUnknown
	}
	return canonical, c.Classify(canonical)
}
