package signals

import (
	"context"
	"fmt"
	"math"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/market"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// Tone selects how assertively technical messages are phrased.
type Tone string

const (
	ToneConservative Tone = "conservative"
	ToneDecisive     Tone = "decisive"
)

// HistorySource provides daily closes for a ticker.
type HistorySource interface {
	History(ctx context.Context, ticker string, rangeStr string) ([]market.PricePoint, error)
}

// TechnicalReport is the output of one technical analysis pass.
type TechnicalReport struct {
	Ticker      string  `json:"ticker"`
	Trend       string  `json:"trend"`    // rising, falling, sideways, unknown
	Momentum    string  `json:"momentum"` // strong, weak, neutral, unknown
	RSI         float64 `json:"rsi"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macd_signal"`
	Signal      string  `json:"signal"` // bullish, bearish, neutral
	EntryTiming string  `json:"entry_timing"`
	Message     string  `json:"message"`
	Summary     string  `json:"summary"`
	HasData     bool    `json:"has_data"`
}

// TechnicalAnalyzer computes RSI, MACD, trend and momentum over six
// months of daily closes.
type TechnicalAnalyzer struct {
	history HistorySource
	logger  *logger.Logger
}

// NewTechnicalAnalyzer creates a technical analyzer.
func NewTechnicalAnalyzer(history HistorySource, log *logger.Logger) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{
		history: history,
		logger:  log,
	}
}

// Analyze fetches six months of history and derives the report.
// Missing data yields a neutral no-data report, not an error.
func (a *TechnicalAnalyzer) Analyze(ctx context.Context, ticker string, tone Tone) TechnicalReport {
	points, err := a.history.History(ctx, ticker, "6mo")
	if err != nil || len(points) == 0 {
		if err != nil {
			a.logger.WithError(err).WithField("ticker", ticker).Warn("Technical history fetch failed")
		}
		return TechnicalReport{
			Ticker:      ticker,
			Trend:       "unknown",
			Momentum:    "unknown",
			Signal:      "neutral",
			EntryTiming: "no data",
			Summary:     fmt.Sprintf("No technical data available for %s", ticker),
		}
	}

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	rsi := calculateRSI(closes, 14)
	macdValue, macdSignal := calculateMACD(closes)

	current := closes[len(closes)-1]
	avg := mean(closes)

	trend := "sideways"
	if current > avg {
		trend = "rising"
	} else if current < avg {
		trend = "falling"
	}

	momentum := "neutral"
	if rsi > 65 {
		momentum = "strong"
	} else if rsi < 40 {
		momentum = "weak"
	}

	entryTiming := "monitor for better timing"
	if trend == "rising" && momentum == "strong" {
		entryTiming = "acceptable for gradual entry"
	} else if trend == "falling" {
		entryTiming = "better to wait"
	}

	signal := "neutral"
	if trend == "rising" && momentum == "strong" {
		signal = "bullish"
	} else if trend == "falling" && momentum == "weak" {
		signal = "bearish"
	}

	message := toneMessage(tone, signal, trend)

	report := TechnicalReport{
		Ticker:      ticker,
		Trend:       trend,
		Momentum:    momentum,
		RSI:         round2(rsi),
		MACD:        round2(macdValue),
		MACDSignal:  round2(macdSignal),
		Signal:      signal,
		EntryTiming: entryTiming,
		Message:     message,
		HasData:     true,
	}
	report.Summary = fmt.Sprintf(
		"Technical Analysis for %s\n- RSI: %.2f\n- MACD vs Signal: %.2f vs %.2f\n- Trend: %s\n- Momentum: %s\n- Entry timing: %s\n- Signal: %s",
		ticker, report.RSI, report.MACD, report.MACDSignal, trend, momentum, entryTiming, message,
	)

	a.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"rsi":      report.RSI,
		"macd":     report.MACD,
		"trend":    trend,
		"momentum": momentum,
		"signal":   signal,
	}).Debug("Calculated technical signal")

	return report
}

func toneMessage(tone Tone, signal, trend string) string {
	if tone == ToneDecisive {
		switch signal {
		case "bullish":
			return "Buy zone forming"
		case "bearish":
			return "Reduce exposure"
		default:
			return "Hold / Observe"
		}
	}

	if signal == "bullish" {
		return "Consider gradual entry"
	}
	if trend == "falling" {
		return "Hold and monitor"
	}
	return "No immediate action"
}

// calculateRSI computes a Wilder-smoothed RSI over the full series.
// Closes are ordered oldest first. Short series return neutral 50.
func calculateRSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// calculateMACD returns the latest MACD line value (EMA12 - EMA26)
// and its 9-period signal line.
func calculateMACD(closes []float64) (float64, float64) {
	if len(closes) < 26 {
		return 0.0, 0.0
	}

	ema12 := emaSeries(closes, 12)
	ema26 := emaSeries(closes, 26)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = ema12[i] - ema26[i]
	}

	// Signal line starts where EMA26 becomes meaningful.
	signalSeries := emaSeries(macdLine[25:], 9)

	macd := macdLine[len(macdLine)-1]
	signal := signalSeries[len(signalSeries)-1]
	return macd, signal
}

// emaSeries computes the EMA at every index, seeding with the SMA of
// the first period values.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if len(values) < period {
		copy(out, values)
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
		out[i] = sum / float64(i+1)
	}
	ema := sum / float64(period)
	out[period-1] = ema

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		ema = values[i]*multiplier + ema*(1-multiplier)
		out[i] = ema
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
