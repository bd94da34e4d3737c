package ftk

import (
	"log/slog"
	"net/http"
	"time"
)

// clientConfig holds configuration assembled from ClientOptions.
type clientConfig struct {
	baseURL       string
	apiKey        string
	username      string
	password      string
	httpClient    *http.Client
	timeout       time.Duration
	userAgent     string
	logger        *slog.Logger
	autoRequestID bool
}

// ClientOption configures a Client at construction time.
type ClientOption func(*clientConfig)

// WithBaseURL sets the FTK service base URL, for example
// "https://ftk.example.com:4443".
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithAPIKey authenticates with an Enterprise API key.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithBasicAuth authenticates with a username and password instead of an
// API key.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient supplies a custom HTTP client, for proxying or for services
// running with self-signed certificates.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client. It is
// ignored when a custom HTTP client is supplied.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithLogger directs the client's debug logging. By default nothing is
// logged.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAutoRequestID stamps a generated X-Request-ID header on every request
// that does not already carry one, for correlating client calls with service
// logs.
func WithAutoRequestID() ClientOption {
	return func(c *clientConfig) {
		c.autoRequestID = true
	}
}

// requestConfig holds per-request configuration assembled from
// RequestOptions.
type requestConfig struct {
	headers http.Header
}

func newRequestConfig() *requestConfig {
	return &requestConfig{headers: make(http.Header)}
}

func (c *requestConfig) apply(opts ...RequestOption) {
	for _, opt := range opts {
		opt(c)
	}
}

// RequestOption configures a single API request.
type RequestOption func(*requestConfig)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		c.headers.Set(key, value)
	}
}

// WithHeaders adds multiple headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(c *requestConfig) {
		for key, value := range headers {
			c.headers.Set(key, value)
		}
	}
}

// WithRequestID sets an explicit X-Request-ID header on the request.
func WithRequestID(requestID string) RequestOption {
	return func(c *requestConfig) {
		c.headers.Set("X-Request-ID", requestID)
	}
}
