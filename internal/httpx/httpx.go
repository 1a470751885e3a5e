package httpx

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultUserAgent is sent when a request does not set its own.
const DefaultUserAgent = "stockrelay/1.0"

// Pool hands out clients that share one tuned transport, so connections are
// reused across calls instead of being opened per request.
type Pool struct {
	transport http.RoundTripper
	timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// NewPool builds the shared transport. timeout bounds each client call end to end.
func NewPool(timeout time.Duration) *Pool {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
	return &Pool{
		transport: otelhttp.NewTransport(transport),
		timeout:   timeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client returns a lightweight client backed by the pool's transport.
func (p *Pool) Client() *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: p.timeout, Transport: p.transport},
		UserAgent: p.UserAgent,
		Headers:   p.Headers,
	}
}

// Client is a small wrapper around http.Client that fills default headers.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
