package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"stockrelay/internal/config"
)

const intradayBody = `{
  "Meta Data": {"2. Symbol": "IBM", "4. Interval": "5min"},
  "Time Series (5min)": {
    "2024-01-01 16:00:00": {"1. open": "161.10", "2. high": "161.40", "3. low": "160.90", "4. close": "161.20", "5. volume": "52011"}
  }
}`

func TestNewHandler(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "k1", r.URL.Query().Get("apikey"))
		_, _ = io.WriteString(w, intradayBody)
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.AlphaVantage.APIKey = "k1"
	cfg.AlphaVantage.BaseURL = upstream.URL

	core, logs := observer.New(zap.InfoLevel)
	h := newHandler(cfg, zap.New(core))
	require.Zero(t, logs.FilterMessage("ALPHAVANTAGE_API_KEY not set; upstream calls will be rejected").Len())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stock", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.JSONEq(t, `{"2024-01-01 16:00:00": {"1. open": "161.10", "2. high": "161.40", "3. low": "160.90", "4. close": "161.20", "5. volume": "52011"}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `stockrelay_upstream_requests_total{outcome="ok",source="AlphaVantage"} 1`)
}

func TestNewHandler_WarnsWithoutKey(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false

	core, logs := observer.New(zap.InfoLevel)
	h := newHandler(cfg, zap.New(core))
	require.Equal(t, 1, logs.FilterMessage("ALPHAVANTAGE_API_KEY not set; upstream calls will be rejected").Len())

	configured := logs.FilterMessage("configured upstream").All()
	require.Len(t, configured, 1)
	require.Equal(t, false, configured[0].ContextMap()["api_key_set"])

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
