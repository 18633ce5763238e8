package advisor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/redis"
)

const sampleReport = `1. ETFs to Add
- VCN.TO — broad Canadian equity exposure
- XBB.TO — core bond ballast
- VCN.TO — (mentioned again)

2. Stocks to Add
- ENB.TO — stable dividend pipeline
- TD.TO — banking exposure

3. Allocation Suggestion
| SAFE.TO | 20% |

4. Reasoning
- Keep liquidity via SAFE.TO

5. Risk Considerations
- Rate sensitivity on XBB.TO

Summary:
Balanced additions for a conservative portfolio.`

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestParseReport(t *testing.T) {
	etfs, stocks := ParseReport(sampleReport)

	// Dedup keeps first appearance order; tickers in later sections
	// never leak into the ETF list.
	assert.Equal(t, []string{"VCN.TO", "XBB.TO"}, etfs)
	assert.Equal(t, []string{"ENB.TO", "TD.TO"}, stocks)
}

func TestParseReport_MissingStockSection(t *testing.T) {
	report := "1. ETFs to Add\n- XAW.TO — global equity\n\nSummary: done."

	etfs, stocks := ParseReport(report)
	assert.Equal(t, []string{"XAW.TO"}, etfs)
	assert.Empty(t, stocks)
}

func TestParseReport_NoTickers(t *testing.T) {
	etfs, stocks := ParseReport("Nothing to recommend at this time.")
	assert.Empty(t, etfs)
	assert.Empty(t, stocks)
}

func TestRecommender_Recommend(t *testing.T) {
	gen := &fakeGenerator{response: sampleReport}
	r := NewRecommender(gen, "conservative, 1-5y", "small", logger.NewNop())

	rec, err := r.Recommend(context.Background(), []contracts.Holding{
		{Ticker: "SAFE.TO", Shares: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"VCN.TO", "XBB.TO"}, rec.ETFs)
	assert.Equal(t, []string{"ENB.TO", "TD.TO"}, rec.Stocks)
	assert.Equal(t, sampleReport, rec.Report)

	// The prompt carries profile, holdings and capital level.
	assert.Contains(t, gen.prompt, "conservative, 1-5y")
	assert.Contains(t, gen.prompt, "SAFE.TO (20 shares)")
	assert.Contains(t, gen.prompt, "small")
}

func TestRecommender_GenerationError(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("quota exceeded")}
	r := NewRecommender(gen, "p", "small", logger.NewNop())

	_, err := r.Recommend(context.Background(), nil)
	assert.Error(t, err)
}

func newDisabledSentimentCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func TestSentimentAnalyzer(t *testing.T) {
	gen := &fakeGenerator{response: "Sentiment: Bullish\nConfidence: Medium"}
	s := NewSentimentAnalyzer(gen, newDisabledSentimentCache(t), logger.NewNop())

	text, err := s.Sentiment(context.Background(), "TD.TO")
	require.NoError(t, err)
	assert.Contains(t, text, "Bullish")
	assert.Contains(t, gen.prompt, "TD.TO")
}

func TestSentimentAnalyzer_GenerationError(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("quota exceeded")}
	s := NewSentimentAnalyzer(gen, newDisabledSentimentCache(t), logger.NewNop())

	_, err := s.Sentiment(context.Background(), "TD.TO")
	assert.Error(t, err)
}
