package provider

import (
	"context"
	"errors"
)

// Series is an intraday time series keyed by timestamp ("2024-01-01 12:00:00").
// Each point maps field names ("1. open", "5. volume", ...) to their values.
// Values are kept as the strings the upstream sent.
type Series map[string]map[string]string

// Source fetches one time series from an upstream quote API.
type Source interface {
	Name() string
	// Endpoint returns the outbound URL with credentials redacted.
	Endpoint() string
	Fetch(ctx context.Context) (Series, error)
}

// ErrNoData means the upstream answered but carried no time series section.
var ErrNoData = errors.New("no time series data in upstream response")

// UpstreamError is a transport-level failure talking to the upstream:
// DNS, TLS, dial, timeout, or a non-2xx status.
type UpstreamError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
