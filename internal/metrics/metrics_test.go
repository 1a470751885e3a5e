package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveUpstream("AlphaVantage", OutcomeOK, 20*time.Millisecond, 100)
	m.ObserveUpstream("AlphaVantage", OutcomeNoData, 10*time.Millisecond, 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamTotal.WithLabelValues("AlphaVantage", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamTotal.WithLabelValues("AlphaVantage", OutcomeNoData)))
	// a failed call leaves the last good count alone
	require.Equal(t, 100.0, testutil.ToFloat64(m.SeriesPoints))
}

func TestObserveRequest(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveRequest("/api/stock", http.MethodGet, http.StatusBadRequest, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/stock", http.MethodGet, "400")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Second)
		m.ObserveUpstream("x", OutcomeOK, time.Second, 1)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New("test")
	m.ObserveUpstream("AlphaVantage", OutcomeInternal, time.Millisecond, 0)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `test_upstream_requests_total{outcome="internal",source="AlphaVantage"} 1`)
	require.Contains(t, string(body), "test_upstream_latency_seconds_bucket")
}

func TestHandler_LeavesCompressionToCaller(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	New("test").Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Header().Get("Content-Encoding"))
	require.Contains(t, rr.Body.String(), "# TYPE test_series_points gauge")
}
