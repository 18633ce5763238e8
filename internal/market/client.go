package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/httputil"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Client fetches quotes and price history. The chart JSON API is the
// primary source; the quote page HTML is a fallback when the chart
// endpoint fails.
type Client struct {
	http         *httputil.Client
	chartBaseURL string
	quoteBaseURL string
	logger       *logger.Logger
}

// NewClient creates a market data client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http:         httputil.New(log, cfg.Market.RequestsPerSecond),
		chartBaseURL: strings.TrimRight(cfg.Market.ChartBaseURL, "/"),
		quoteBaseURL: strings.TrimRight(cfg.Market.QuoteBaseURL, "/"),
		logger:       log,
	}
}

// Quote returns the latest close for a ticker, rounded to cents.
// Falls back to scraping the quote page when the chart API fails.
func (c *Client) Quote(ctx context.Context, ticker string) (float64, error) {
	points, err := c.History(ctx, ticker, "1d")
	if err == nil && len(points) > 0 {
		return roundCents(points[len(points)-1].Close), nil
	}

	price, htmlErr := c.quoteFromHTML(ctx, ticker)
	if htmlErr != nil {
		if err == nil {
			err = fmt.Errorf("empty chart data")
		}
		return 0, fmt.Errorf("quote failed for %s: chart: %v, html: %w", ticker, err, htmlErr)
	}

	c.logger.WithField("ticker", ticker).Debug("Quote resolved via HTML fallback")
	return roundCents(price), nil
}

// History returns daily closes for a range string such as "1d" or "6mo".
func (c *Client) History(ctx context.Context, ticker string, rangeStr string) ([]PricePoint, error) {
	fullURL := fmt.Sprintf("%s/%s?range=%s&interval=1d",
		c.chartBaseURL, url.PathEscape(ticker), url.QueryEscape(rangeStr))

	body, err := c.http.GetBody(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}

	points, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("chart parse failed for %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"range":  rangeStr,
		"count":  len(points),
	}).Debug("Fetched price history")

	return points, nil
}

// IsDelisted reports whether a ticker has no price history over the
// last six months. Fetch errors count as delisted.
func (c *Client) IsDelisted(ctx context.Context, ticker string) bool {
	points, err := c.History(ctx, ticker, "6mo")
	if err != nil {
		return true
	}
	return len(points) == 0
}

// chartResponse mirrors the chart API JSON envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseChart extracts daily closes from a chart API response.
// Null closes (market holidays, halted sessions) are skipped.
func parseChart(body []byte) ([]PricePoint, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s (%s)",
			resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("missing quote indicators")
	}

	closes := result.Indicators.Quote[0].Close
	var points []PricePoint
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return points, nil
}

// quoteFromHTML scrapes the quote page for the live price element.
func (c *Client) quoteFromHTML(ctx context.Context, ticker string) (float64, error) {
	fullURL := fmt.Sprintf("%s/%s", c.quoteBaseURL, url.PathEscape(ticker))

	body, err := c.http.GetBody(ctx, fullURL)
	if err != nil {
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("HTML parse failed: %w", err)
	}

	selector := fmt.Sprintf(`fin-streamer[data-field="regularMarketPrice"][data-symbol=%q]`, ticker)
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		node = doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).First()
	}
	if node.Length() == 0 {
		return 0, fmt.Errorf("price element not found")
	}

	raw, ok := node.Attr("data-value")
	if !ok || raw == "" {
		raw = strings.TrimSpace(node.Text())
	}
	raw = strings.ReplaceAll(raw, ",", "")

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q: %w", raw, err)
	}
	return price, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
