package signals

import (
	"context"
	"strings"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// SentimentSource produces a free-text sentiment read for a ticker.
type SentimentSource interface {
	Sentiment(ctx context.Context, ticker string) (string, error)
}

// CompositeSignal aggregates the technical, fundamental and sentiment
// reads into one trading signal.
type CompositeSignal struct {
	Ticker      string            `json:"ticker"`
	Signal      string            `json:"signal"` // BUY, SELL, HOLD
	Score       int               `json:"score"`
	Technical   TechnicalReport   `json:"technical"`
	Fundamental FundamentalReport `json:"fundamental"`
	Sentiment   string            `json:"sentiment"`
	Trend       string            `json:"trend"`
	Momentum    string            `json:"momentum"`
}

// SignalGenerator runs the three analysis legs and votes them into a
// composite signal.
type SignalGenerator struct {
	technical *TechnicalAnalyzer
	sentiment SentimentSource
	logger    *logger.Logger
}

// NewSignalGenerator creates a signal generator.
func NewSignalGenerator(technical *TechnicalAnalyzer, sentiment SentimentSource, log *logger.Logger) *SignalGenerator {
	return &SignalGenerator{
		technical: technical,
		sentiment: sentiment,
		logger:    log,
	}
}

// Generate produces a composite BUY/SELL/HOLD signal. Each leg votes
// +1/-1/0; a total of +2 is a BUY and -2 a SELL.
func (g *SignalGenerator) Generate(ctx context.Context, ticker string) CompositeSignal {
	technical := g.technical.Analyze(ctx, ticker, ToneConservative)
	fundamental := AnalyzeFundamental(ticker)
	sentiment := g.fetchSentiment(ctx, ticker)

	score := 0

	switch technical.Signal {
	case "bullish":
		score++
	case "bearish":
		score--
	}

	switch fundamental.Signal {
	case "bullish":
		score++
	case "bearish":
		score--
	}

	switch ParseSentimentLabel(sentiment) {
	case "positive":
		score++
	case "negative":
		score--
	}

	signal := "HOLD"
	if score >= 2 {
		signal = "BUY"
	} else if score <= -2 {
		signal = "SELL"
	}

	g.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"score":  score,
		"signal": signal,
	}).Debug("Generated composite signal")

	return CompositeSignal{
		Ticker:      ticker,
		Signal:      signal,
		Score:       score,
		Technical:   technical,
		Fundamental: fundamental,
		Sentiment:   sentiment,
		Trend:       technical.Trend,
		Momentum:    technical.Momentum,
	}
}

func (g *SignalGenerator) fetchSentiment(ctx context.Context, ticker string) string {
	if g.sentiment == nil {
		return "neutral"
	}
	sentiment, err := g.sentiment.Sentiment(ctx, ticker)
	if err != nil {
		g.logger.WithError(err).WithField("ticker", ticker).Warn("Sentiment fetch failed")
		return "neutral"
	}
	return sentiment
}

// ParseSentimentLabel reduces a free-text sentiment read to
// positive/negative/neutral. Negative wins when both tones appear.
func ParseSentimentLabel(sentiment string) string {
	text := strings.ToLower(sentiment)
	if strings.Contains(text, "negative") || strings.Contains(text, "bearish") {
		return "negative"
	}
	if strings.Contains(text, "positive") || strings.Contains(text, "bullish") {
		return "positive"
	}
	return "neutral"
}

// WatchlistAction maps a composite signal to a watchlist verdict.
func WatchlistAction(signal string) string {
	s := strings.ToLower(signal)
	switch {
	case strings.Contains(s, "buy"):
		return "BUY_CANDIDATE"
	case strings.Contains(s, "sell"):
		return "REMOVE"
	case strings.Contains(s, "neutral"):
		return "WATCH"
	default:
		return "WAIT"
	}
}
