package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"stockrelay/internal/provider"
)

// SeriesKey is the top-level member holding the 5 minute intraday series.
const SeriesKey = "Time Series (5min)"

// intradayEnvelope is the part of the intraday response we look at.
// Note, Information and Error Message replace the series when the upstream
// throttles or rejects the key.
type intradayEnvelope struct {
	Series       json.RawMessage `json:"Time Series (5min)"`
	Note         string          `json:"Note"`
	Information  string          `json:"Information"`
	ErrorMessage string          `json:"Error Message"`
}

// Fetch retrieves the intraday series for the fixed symbol and interval.
func (c *Client) Fetch(ctx context.Context) (provider.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(c.key), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &provider.UpstreamError{Err: c.redact(err)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		c.log.Warn("upstream returned non-success status",
			zap.Int("status", res.StatusCode),
			zap.ByteString("body", b))
		return nil, &provider.UpstreamError{
			StatusCode: res.StatusCode,
			Err: fmt.Errorf("response status code does not indicate success: %d (%s)",
				res.StatusCode, http.StatusText(res.StatusCode)),
		}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &provider.UpstreamError{StatusCode: res.StatusCode, Err: c.redact(err)}
	}
	c.log.Info("received response from upstream",
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(body)))

	return c.decode(body)
}

// decode maps the body onto Series. A missing, null or non-object series
// section is ErrNoData; every other shape problem is a decode error.
func (c *Client) decode(body []byte) (provider.Series, error) {
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("decoding intraday response: top level is not a JSON object")
	}
	var env intradayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding intraday response: %w", err)
	}

	raw := bytes.TrimSpace(env.Series)
	if len(raw) == 0 || raw[0] != '{' {
		switch {
		case env.ErrorMessage != "":
			c.log.Warn("upstream error message", zap.String("message", env.ErrorMessage))
		case env.Note != "":
			c.log.Warn("upstream note", zap.String("note", env.Note))
		case env.Information != "":
			c.log.Warn("upstream information", zap.String("information", env.Information))
		}
		return nil, provider.ErrNoData
	}

	var series provider.Series
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", SeriesKey, err)
	}
	return series, nil
}

// redact strips the API key from errors that echo the request URL.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = c.Endpoint()
	}
	return err
}
