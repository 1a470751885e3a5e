package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream outcomes, used as the outcome label.
const (
	OutcomeOK                  = "ok"
	OutcomeNoData              = "no_data"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
	OutcomeInternal            = "internal"
)

// Metrics holds the relay collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UpstreamTotal   *prometheus.CounterVec
	UpstreamLatency prometheus.Histogram
	SeriesPoints    prometheus.Gauge
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total inbound HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		UpstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream quote calls by outcome.",
		}, []string{"source", "outcome"}),
		UpstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Time spent waiting on the upstream quote API.",
			Buckets:   prometheus.DefBuckets,
		}),
		SeriesPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "series_points",
			Help:      "Number of points in the last extracted time series.",
		}),
	}
	m.registry.MustRegister(
		m.RequestsTotal, m.RequestDuration,
		m.UpstreamTotal, m.UpstreamLatency, m.SeriesPoints,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one inbound request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveUpstream records one upstream call. points is only kept on success.
func (m *Metrics) ObserveUpstream(source, outcome string, d time.Duration, points int) {
	if m == nil {
		return
	}
	m.UpstreamTotal.WithLabelValues(source, outcome).Inc()
	m.UpstreamLatency.Observe(d.Seconds())
	if outcome == OutcomeOK {
		m.SeriesPoints.Set(float64(points))
	}
}

// Handler exposes the registry in the Prometheus text format.
// Compression is left to the router's gzip middleware.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{DisableCompression: true})
}
