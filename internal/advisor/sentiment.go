package advisor

import (
	"context"
	"fmt"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

const sentimentTemplate = `You are a financial sentiment analyst.

Analyze overall market sentiment for stock/ETF: %s

Consider:
- investor tone
- news direction
- social/media buzz
- macro environment

Return:

Sentiment: Bullish / Neutral / Bearish
Confidence: Low / Medium / High
Reasoning: short explanation
`

// SentimentAnalyzer asks the text model for a market sentiment read.
// Reads are cached so the deploy pipeline does not pay for a model
// round-trip per ticker per call. Implements the signals package's
// SentimentSource.
type SentimentAnalyzer struct {
	gen    TextGenerator
	cache  *redis.Cache
	logger *logger.Logger
}

// NewSentimentAnalyzer creates a sentiment analyzer.
func NewSentimentAnalyzer(gen TextGenerator, cache *redis.Cache, log *logger.Logger) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		gen:    gen,
		cache:  cache,
		logger: log,
	}
}

// Sentiment returns the model's free-text sentiment read for a ticker.
func (s *SentimentAnalyzer) Sentiment(ctx context.Context, ticker string) (string, error) {
	var text string
	err := s.cache.GetOrSet(ctx, redis.SentimentKey(ticker), &text, redis.TTLLong, func() (interface{}, error) {
		generated, err := s.gen.Generate(ctx, fmt.Sprintf(sentimentTemplate, ticker))
		if err != nil {
			return nil, fmt.Errorf("sentiment generation failed: %w", err)
		}
		s.logger.WithField("ticker", ticker).Debug("Generated sentiment read")
		return generated, nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
