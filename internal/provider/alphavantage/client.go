package alphavantage

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Alpha Vantage API host.
	DefaultBaseURL = "https://www.alphavantage.co"

	// Symbol and Interval are fixed; only the key is configurable.
	Symbol   = "IBM"
	Interval = "5min"

	function = "TIME_SERIES_INTRADAY"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=alphavantage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Alpha Vantage intraday API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// key is the API key sent as the apikey query parameter.
	key string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	log    *zap.Logger
}

// Option is a configuration option for the Alpha Vantage client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithLogger sets the logger used for response receipt and upstream notices.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a new Alpha Vantage client. An empty key is accepted;
// the upstream rejects such requests itself.
func NewClient(key string, options ...Option) *Client {
	var client = &Client{
		baseURL:    DefaultBaseURL,
		key:        key,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		log:        zap.NewNop(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Name implements provider.Source.
func (c *Client) Name() string { return "AlphaVantage" }

// Endpoint implements provider.Source. The key is replaced by a placeholder.
func (c *Client) Endpoint() string { return c.requestURL("REDACTED") }

func (c *Client) requestURL(key string) string {
	query := url.Values{}
	query.Set("function", function)
	query.Set("symbol", Symbol)
	query.Set("interval", Interval)
	query.Set("apikey", key)
	return c.baseURL + "/query?" + query.Encode()
}
