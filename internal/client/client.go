// Package client talks to the alert data service.
//
// The service publishes alert metadata, per-alert entity networks, the alert
// list and a login endpoint. Each call is a single request: failures are
// returned to the caller as errors and never retried here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"alertgraph/internal/domain"
	"alertgraph/internal/metrics"
)

// Operation names, used in errors, logs and metrics
const (
	OpAlert   = "alert"
	OpNetwork = "network"
	OpAlerts  = "alerts"
	OpLogin   = "login"
)

// DefaultTimeout bounds a single request when no HTTP client is supplied
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 512

// ErrNotFound matches a StatusError for a 404 response
var ErrNotFound = errors.New("not found")

// StatusError reports a non-2xx response from the data service
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s returned %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s returned %d", e.Op, e.URL, e.StatusCode)
}

// Is reports whether the error matches ErrNotFound
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// LoginResult is the reply of the login endpoint
type LoginResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// Client is an alert data service client
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Registry
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records upstream request metrics on r
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// New creates a client for the service rooted at baseURL
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    trimSlash(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAlert retrieves alert metadata
func (c *Client) FetchAlert(ctx context.Context, alertID string) (*domain.Alert, error) {
	var alert domain.Alert
	if err := c.get(ctx, OpAlert, "/alert/"+url.PathEscape(alertID), &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// FetchNetwork retrieves the entity network of an alert
func (c *Client) FetchNetwork(ctx context.Context, alertID string) (*domain.Network, error) {
	var network domain.Network
	if err := c.get(ctx, OpNetwork, "/api/network/"+url.PathEscape(alertID), &network); err != nil {
		return nil, err
	}
	return &network, nil
}

// ListAlerts retrieves every alert known to the service
func (c *Client) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	var resp struct {
		Alerts []domain.Alert `json:"alerts"`
	}
	if err := c.get(ctx, OpAlerts, "/api/alert", &resp); err != nil {
		return nil, err
	}
	if resp.Alerts == nil {
		resp.Alerts = make([]domain.Alert, 0)
	}
	return resp.Alerts, nil
}

// Login checks credentials. Rejected credentials are reported through
// LoginResult.Success, not as an error.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", OpLogin, err)
	}

	var result LoginResult
	if err := c.do(ctx, OpLogin, http.MethodPost, "/api/login", bytes.NewReader(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	return c.do(ctx, op, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	target := c.baseURL + path
	start := time.Now()
	status := "error"
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordUpstreamRequest(op, status, time.Since(start))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("op", op), zap.String("url", target), zap.Error(err))
		return fmt.Errorf("%s: http request: %w", op, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("upstream returned error status",
			zap.String("op", op), zap.String("url", target), zap.Int("status", resp.StatusCode))
		return &StatusError{Op: op, URL: target, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	c.logger.Debug("upstream request",
		zap.String("op", op), zap.String("url", target), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
