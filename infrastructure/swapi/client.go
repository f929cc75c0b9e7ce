package swapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"holocron/pkg/errors"
	"holocron/pkg/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public catalog the application reads from.
const DefaultBaseURL = "https://swapi.py4e.com/api"

// HTTPClient issues GET requests against a fixed base URL and decodes JSON
// responses. It does not retry and sets no timeout of its own; callers bound
// requests through the context.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Collector
	logger     *zap.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithMetrics records request outcomes on collector.
func WithMetrics(collector *observability.Collector) ClientOption {
	return func(c *HTTPClient) {
		c.metrics = collector
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates a client for baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base every endpoint is appended to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get requests baseURL+endpoint and decodes the JSON body into out.
//
// A non-2xx status yields an HTTP error carrying the status, a transport
// failure a network error wrapping the cause, and an undecodable body a
// parse error.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, out interface{}) error {
	start := time.Now()
	requestURL := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		c.observe(observability.OutcomeNetworkError, start)
		return errors.NewNetworkError("", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(observability.OutcomeNetworkError, start)
		c.logger.Warn("Catalog request failed",
			zap.String("url", requestURL),
			zap.Error(err),
		)
		return errors.NewNetworkError("", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.observe(observability.OutcomeHTTPError, start)
		c.logger.Warn("Catalog returned error status",
			zap.String("url", requestURL),
			zap.Int("status", resp.StatusCode),
		)
		return errors.NewHTTPError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(observability.OutcomeParseError, start)
		c.logger.Warn("Catalog returned undecodable body",
			zap.String("url", requestURL),
			zap.Error(err),
		)
		return errors.NewParseError(err)
	}

	c.observe(observability.OutcomeSuccess, start)
	c.logger.Debug("Catalog request completed",
		zap.String("url", requestURL),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (c *HTTPClient) observe(outcome string, start time.Time) {
	c.metrics.RecordCatalogRequest(outcome, time.Since(start))
}

// Get is a typed convenience over HTTPClient.Get.
func Get[T any](ctx context.Context, c *HTTPClient, endpoint string) (T, error) {
	var out T
	if err := c.Get(ctx, endpoint, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
