// Package relay implements the quote relay: one upstream call per request,
// one extracted time series back, or a classified failure.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stockrelay/internal/metrics"
	"stockrelay/internal/provider"
)

// Kind classifies a failed relay call.
type Kind int

const (
	// KindNoData means the upstream answered without a time series section.
	KindNoData Kind = iota + 1
	// KindUpstreamUnavailable means the upstream could not be reached or
	// answered with a non-success status.
	KindUpstreamUnavailable
	// KindInternal covers everything else, malformed payloads included.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no_data"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by GetStockData on failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}

type Config struct {
	// Timeout bounds a single upstream call. Zero leaves it to the caller's context.
	Timeout time.Duration
}

// Relay holds no per-call state and is safe for concurrent use.
type Relay struct {
	cfg     Config
	source  provider.Source
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a relay over source. log and m may be nil.
func New(cfg Config, source provider.Source, log *zap.Logger, m *metrics.Metrics) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{cfg: cfg, source: source, log: log.With(zap.String("source", source.Name())), metrics: m}
}

// GetStockData fetches the series from the upstream. It either returns the
// complete series or an *Error; there are no retries.
func (r *Relay) GetStockData(ctx context.Context) (provider.Series, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	r.log.Info("starting upstream request", zap.String("url", r.source.Endpoint()))
	start := time.Now()
	series, err := r.source.Fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		rerr := r.classify(err)
		r.metrics.ObserveUpstream(r.source.Name(), rerr.Kind.String(), elapsed, 0)
		return nil, rerr
	}

	r.log.Info("extracted data points from upstream response",
		zap.Int("count", len(series)),
		zap.Duration("elapsed", elapsed))
	r.metrics.ObserveUpstream(r.source.Name(), metrics.OutcomeOK, elapsed, len(series))
	return series, nil
}

func (r *Relay) classify(err error) *Error {
	var upstream *provider.UpstreamError
	switch {
	case errors.Is(err, provider.ErrNoData):
		r.log.Warn("no time series data found in upstream response")
		return &Error{Kind: KindNoData, Err: err}
	case errors.As(err, &upstream):
		r.log.Error("upstream request failed", zap.Int("status", upstream.StatusCode), zap.Error(err))
		return &Error{Kind: KindUpstreamUnavailable, Err: err}
	default:
		r.log.Error("error while processing upstream response", zap.Error(err))
		return &Error{Kind: KindInternal, Err: err}
	}
}
