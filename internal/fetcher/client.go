// Package fetcher reads the dashboard backend's JSON endpoints.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/solardash/pkg/models"
)

// Dashboard API endpoints
const (
	EndpointDashboard     = "/api/dashboard"
	EndpointEnergyBalance = "/api/energy-balance"
	EndpointBreakdown     = "/api/consumption-breakdown"
	EndpointEVCharging    = "/api/ev-charging"
	EndpointInsights      = "/api/insights"
	EndpointHealth        = "/api/health"
)

// Param is one query parameter. Parameters are sent in the order given.
type Param struct {
	Key   string
	Value string
}

// Client issues GET requests against a dashboard backend
type Client struct {
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
	userAgent string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the backend at baseURL. The default HTTP client
// has no timeout: a hung request only stalls its own metric.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		logger:    zap.NewNop(),
		userAgent: "solardash",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the request URL for endpoint and params
func (c *Client) URL(endpoint string, params ...Param) string {
	u := c.baseURL + endpoint
	if len(params) == 0 {
		return u
	}

	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = url.QueryEscape(p.Key) + "=" + url.QueryEscape(p.Value)
	}
	return u + "?" + strings.Join(pairs, "&")
}

// Get fetches endpoint and decodes its payload into out. The HTTP status is
// not inspected; the envelope's success flag decides.
func (c *Client) Get(ctx context.Context, endpoint string, out any, params ...Param) error {
	reqURL := c.URL(endpoint, params...)
	body, status, err := c.do(ctx, endpoint, reqURL)
	if err != nil {
		return err
	}

	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &DecodeError{Endpoint: endpoint, StatusCode: status, Err: err}
	}
	if !env.Success {
		c.logger.Debug("unsuccessful response",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", status),
			zap.String("error", env.Error))
		return ErrNotSuccessful
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Endpoint: endpoint, StatusCode: status, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, &NetworkError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.logger.Debug("api request",
		zap.String("method", http.MethodGet),
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return body, resp.StatusCode, nil
}

var errMissingPayload = errors.New("payload missing from successful response")

func missing(endpoint, field string) error {
	return &DecodeError{Endpoint: endpoint, StatusCode: http.StatusOK, Err: fmt.Errorf("%w: %s", errMissingPayload, field)}
}
