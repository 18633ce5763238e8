package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/advisor"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/portfolio"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/store"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/config"
	"github.com/lindanguyen886/portfolio-assistant-ai/pkg/logger"
)

type stubService struct {
	summary  portfolio.Summary
	alloc    *advisor.AllocationReport
	daily    *advisor.DailySignals
	advice   *advisor.Advice
	decision contracts.Decision
	err      error

	gotMode guardrail.Mode
	gotCash float64
}

func (s *stubService) Summary(ctx context.Context) (portfolio.Summary, error) {
	return s.summary, s.err
}

func (s *stubService) Allocation(ctx context.Context) (*advisor.AllocationReport, error) {
	return s.alloc, s.err
}

func (s *stubService) DailySignals(ctx context.Context) (*advisor.DailySignals, error) {
	return s.daily, s.err
}

func (s *stubService) Recommend(ctx context.Context, mode guardrail.Mode) (*advisor.Advice, error) {
	s.gotMode = mode
	return s.advice, s.err
}

func (s *stubService) Deploy(ctx context.Context, cash float64) (contracts.Decision, error) {
	s.gotCash = cash
	return s.decision, s.err
}

func newTestStore(t *testing.T) *store.JSONStore {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.HoldingsFile = filepath.Join(dir, "holdings.json")
	cfg.Storage.WatchlistFile = filepath.Join(dir, "watchlist.json")
	return store.NewJSONStore(cfg, logger.NewNop())
}

func TestPortfolioHandler_GetSummary(t *testing.T) {
	svc := &stubService{summary: portfolio.Summary{TotalValue: 460, HasReturn: true}}
	h := NewPortfolioHandler(svc, newTestStore(t), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest("GET", "/api/portfolio/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body portfolio.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 460.0, body.TotalValue)
}

func TestPortfolioHandler_GetSummaryError(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("store offline")}
	h := NewPortfolioHandler(svc, newTestStore(t), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetSummary(rec, httptest.NewRequest("GET", "/api/portfolio/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPortfolioHandler_PutHoldings(t *testing.T) {
	s := newTestStore(t)
	h := NewPortfolioHandler(&stubService{}, s, logger.NewNop())

	body := `{"holdings":[{"ticker":"XBB.TO","shares":10,"buy_price":25}]}`
	rec := httptest.NewRecorder()
	h.PutHoldings(rec, httptest.NewRequest("PUT", "/api/portfolio/holdings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	holdings, err := s.LoadHoldings(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "XBB.TO", holdings[0].Ticker)
}

func TestPortfolioHandler_PutHoldingsRejectsBlankTicker(t *testing.T) {
	h := NewPortfolioHandler(&stubService{}, newTestStore(t), logger.NewNop())

	body := `{"holdings":[{"ticker":"","shares":10}]}`
	rec := httptest.NewRecorder()
	h.PutHoldings(rec, httptest.NewRequest("PUT", "/api/portfolio/holdings", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisorHandler_Deploy(t *testing.T) {
	svc := &stubService{decision: contracts.Decision{
		Action: contracts.ActionBuy,
		Ticker: "SAFE.TO",
		Shares: 4,
		Reason: "test",
	}}
	h := NewAdvisorHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Deploy(rec, httptest.NewRequest("POST", "/api/deploy", strings.NewReader(`{"cash":200}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200.0, svc.gotCash)

	var decision contracts.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, contracts.ActionBuy, decision.Action)
}

func TestAdvisorHandler_DeployRejectsNegativeCash(t *testing.T) {
	h := NewAdvisorHandler(&stubService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Deploy(rec, httptest.NewRequest("POST", "/api/deploy", strings.NewReader(`{"cash":-5}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisorHandler_RecommendationModeParsing(t *testing.T) {
	svc := &stubService{advice: &advisor.Advice{
		Recommendation: &contracts.Recommendation{},
		Guardrail:      &contracts.GuardrailReport{Mode: "balanced"},
	}}
	h := NewAdvisorHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetRecommendation(rec, httptest.NewRequest("GET", "/api/recommendation?mode=balanced", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, guardrail.ModeBalanced, svc.gotMode)
}

func TestWatchlistHandler_AddAndRemove(t *testing.T) {
	s := newTestStore(t)
	h := NewWatchlistHandler(store.NewWatchlistManager(s), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest("POST", "/api/watchlist", strings.NewReader(`{"ticker":"vcn.to"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	watchlist, err := s.LoadWatchlist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"VCN.TO"}, watchlist)

	// Route through mux so path vars resolve.
	router := mux.NewRouter()
	router.HandleFunc("/api/watchlist/{ticker}", h.Remove).Methods("DELETE")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/watchlist/VCN.TO", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	watchlist, err = s.LoadWatchlist(context.Background())
	require.NoError(t, err)
	assert.Empty(t, watchlist)
}

func TestWatchlistHandler_AddRejectsBlank(t *testing.T) {
	h := NewWatchlistHandler(store.NewWatchlistManager(newTestStore(t)), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Add(rec, httptest.NewRequest("POST", "/api/watchlist", strings.NewReader(`{"ticker":"  "}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler_NoDatabase(t *testing.T) {
	h := NewHealthHandler("json", nil)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "json", body["backend"])
}
