package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1767139200, 1767225600, 1767312000],
			"indicators": {
				"quote": [{"close": [27.41, null, 27.685]}]
			}
		}],
		"error": null
	}
}`

func newTestClient(chartURL, quoteURL string) *Client {
	cfg := &config.Config{
		Market: config.MarketConfig{
			ChartBaseURL:      chartURL,
			QuoteBaseURL:      quoteURL,
			RequestsPerSecond: 0,
		},
	}
	c := NewClient(cfg, logger.NewNop())
	c.http.DisableRetry()
	return c
}

func TestParseChart(t *testing.T) {
	points, err := parseChart([]byte(chartBody))
	require.NoError(t, err)

	// Null closes are skipped.
	require.Len(t, points, 2)
	assert.Equal(t, 27.41, points[0].Close)
	assert.Equal(t, 27.685, points[1].Close)
	assert.True(t, points[0].Date.Before(points[1].Date))
}

func TestParseChart_APIError(t *testing.T) {
	body := `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`

	_, err := parseChart([]byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestClient_QuoteRoundsLastClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	price, err := client.Quote(context.Background(), "XBB.TO")
	require.NoError(t, err)
	assert.Equal(t, 27.69, price)
}

func TestClient_QuoteFallsBackToHTML(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	// Chart endpoint is down; the quote page carries the price element.
	mux.HandleFunc("/chart/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/quote/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<fin-streamer data-field="regularMarketPrice" data-symbol="TD.TO" data-value="84.12">84.12</fin-streamer>
		</body></html>`)
	})

	client := newTestClient(server.URL+"/chart", server.URL+"/quote")

	price, err := client.Quote(context.Background(), "TD.TO")
	require.NoError(t, err)
	assert.Equal(t, 84.12, price)
}

func TestClient_QuoteFailsWhenBothSourcesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)

	_, err := client.Quote(context.Background(), "GONE.TO")
	assert.Error(t, err)
}

func TestClient_IsDelisted(t *testing.T) {
	empty := `{"chart": {"result": [{"timestamp": [], "indicators": {"quote": [{"close": []}]}}], "error": null}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, empty)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	assert.True(t, client.IsDelisted(context.Background(), "GONE.TO"))

	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody)
	}))
	defer live.Close()

	client = newTestClient(live.URL, live.URL)
	assert.False(t, client.IsDelisted(context.Background(), "XBB.TO"))
}
