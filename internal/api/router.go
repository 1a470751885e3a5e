// Package api exposes the relay over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"stockrelay/internal/metrics"
)

type Config struct {
	Stocks StockGetter
	Logger *zap.Logger
	// Metrics enables request metrics and the /metrics route when set.
	Metrics *metrics.Metrics
	// TLS adds HSTS to every response.
	TLS bool
}

// NewRouter wires the routes and the middleware chain.
func NewRouter(cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withAccessLog(log, cfg.Metrics))
	if cfg.TLS {
		r.Use(withHSTS)
	}
	r.Use(withCORS)
	r.Use(withGzip)
	r.Use(recoverPanic(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	r.Get("/api/stock", handleGetStock(cfg.Stocks, log))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	return otelhttp.NewHandler(r, "stockrelay")
}
