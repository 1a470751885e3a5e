package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"stockrelay/internal/provider"
	"stockrelay/internal/relay"
)

// Caller-visible bodies.
const (
	msgNoData        = "No stock data available."
	msgUpstreamFail  = "API request failed: "
	msgInternalError = "An internal error occurred."
)

// StockGetter is the relay capability the stock route needs.
type StockGetter interface {
	GetStockData(ctx context.Context) (provider.Series, error)
}

// handleGetStock serves GET /api/stock.
func handleGetStock(stocks StockGetter, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, err := stocks.GetStockData(r.Context())
		if err != nil {
			switch relay.KindOf(err) {
			case relay.KindNoData:
				writeText(w, http.StatusBadRequest, msgNoData)
			case relay.KindUpstreamUnavailable:
				writeText(w, http.StatusInternalServerError, msgUpstreamFail+upstreamText(err))
			default:
				writeText(w, http.StatusInternalServerError, msgInternalError)
			}
			return
		}
		writeJSON(w, http.StatusOK, series, log)
	}
}

// upstreamText is the transport error as reported by the upstream client,
// without the relay's classification prefix.
func upstreamText(err error) string {
	if re, ok := err.(*relay.Error); ok {
		return re.Err.Error()
	}
	return err.Error()
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any, log *zap.Logger) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding response", zap.Error(err))
		writeText(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
