package signals

import (
	"context"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// HoldingDecision is the per-holding verdict feeding the capital
// deployment matrix.
type HoldingDecision struct {
	Ticker      string            `json:"ticker"`
	Decision    string            `json:"decision"` // ADD, HOLD, TRIM, AVOID, WAIT
	Technical   TechnicalReport   `json:"technical"`
	Fundamental FundamentalReport `json:"fundamental"`
	Sentiment   string            `json:"sentiment"`
	Reasoning   []string          `json:"reasoning"`
}

// DecisionEngine turns analysis legs into ADD/TRIM/AVOID/WAIT calls
// for holdings and entry-timing verdicts for watchlist tickers.
type DecisionEngine struct {
	technical *TechnicalAnalyzer
	sentiment SentimentSource
	logger    *logger.Logger
}

// NewDecisionEngine creates a decision engine.
func NewDecisionEngine(technical *TechnicalAnalyzer, sentiment SentimentSource, log *logger.Logger) *DecisionEngine {
	return &DecisionEngine{
		technical: technical,
		sentiment: sentiment,
		logger:    log,
	}
}

// ForHolding evaluates one held ticker. Later legs can override
// earlier ones: weak fundamentals force AVOID, negative sentiment
// forces WAIT.
func (e *DecisionEngine) ForHolding(ctx context.Context, ticker string) HoldingDecision {
	technical := e.technical.Analyze(ctx, ticker, ToneConservative)
	fundamental := AnalyzeFundamental(ticker)
	sentiment := e.fetchSentiment(ctx, ticker)

	decision := contracts.DecisionHold
	var reasoning []string

	if technical.HasData {
		if technical.Trend == "rising" && technical.RSI < 70 {
			decision = contracts.DecisionAdd
			reasoning = append(reasoning, "Positive trend with room before overbought")
		} else if technical.RSI > 75 {
			decision = contracts.DecisionTrim
			reasoning = append(reasoning, "RSI indicates overbought conditions")
		}
	}

	if fundamental.Score >= 8 {
		reasoning = append(reasoning, "Strong fundamentals support long-term hold")
	} else if fundamental.Score <= 4 {
		decision = contracts.DecisionAvoid
		reasoning = append(reasoning, "Weak fundamentals")
	}

	switch ParseSentimentLabel(sentiment) {
	case "negative":
		decision = contracts.DecisionWait
		reasoning = append(reasoning, "Negative market sentiment")
	case "positive":
		reasoning = append(reasoning, "Positive sentiment supports accumulation")
	}

	if len(reasoning) == 0 {
		reasoning = append(reasoning, "No strong conflicting signals detected")
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"decision": decision,
	}).Debug("Generated holding decision")

	return HoldingDecision{
		Ticker:      ticker,
		Decision:    decision,
		Technical:   technical,
		Fundamental: fundamental,
		Sentiment:   sentiment,
		Reasoning:   reasoning,
	}
}

// ForWatch evaluates entry timing for a watchlist ticker. Watchlist
// verdicts never touch holdings logic.
func (e *DecisionEngine) ForWatch(signal CompositeSignal) contracts.WatchDecision {
	sentimentLabel := ParseSentimentLabel(signal.Sentiment)

	if signal.Trend == "rising" && sentimentLabel == "positive" {
		return contracts.WatchDecision{
			Decision:  "Consider entry",
			Reasoning: []string{"trend improving", "positive sentiment"},
		}
	}

	if signal.Momentum == "strong" {
		return contracts.WatchDecision{
			Decision:  "Watch breakout",
			Reasoning: []string{"momentum building"},
		}
	}

	if signal.Trend == "falling" {
		return contracts.WatchDecision{
			Decision:  "Wait",
			Reasoning: []string{"downtrend - avoid early entry"},
		}
	}

	return contracts.WatchDecision{
		Decision:  "Monitor",
		Reasoning: []string{"no clear entry signal yet"},
	}
}

func (e *DecisionEngine) fetchSentiment(ctx context.Context, ticker string) string {
	if e.sentiment == nil {
		return "neutral"
	}
	sentiment, err := e.sentiment.Sentiment(ctx, ticker)
	if err != nil {
		e.logger.WithError(err).WithField("ticker", ticker).Warn("Sentiment fetch failed")
		return "neutral"
	}
	return sentiment
}
