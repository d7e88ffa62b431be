// Package apiclient talks to the business API that owns products, sales and
// receipts. It forwards the operator's bearer credential, retries idempotent
// reads with backoff, and turns error bodies into *APIError values.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/logger"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config configures the client
type Config struct {
	BaseURL       string // including the API prefix, e.g. https://shop.example.com/api
	Timeout       time.Duration
	TLSSkipVerify bool
	UserAgent     string
	Retry         RetryConfig
}

// RetryConfig configures retry behavior. Only GET requests are retried.
type RetryConfig struct {
	MaxRetries  int
	RetryDelay  time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	ShouldRetry func(resp *http.Response, err error) bool
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		RetryDelay:  200 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
		ShouldRetry: retryable,
	}
}

func retryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	// Retry on 5xx errors and 429 (Too Many Requests)
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// RequestObserver is told about every upstream round trip.
// route is the path template, e.g. /sales/{id}/receipt.
type RequestObserver interface {
	ObserveUpstream(method, route string, status int, duration time.Duration)
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers an observer for upstream calls.
func WithObserver(o RequestObserver) Option {
	return func(c *Client) { c.observer = o }
}

// Client is the HTTP client for the business API.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	headers     map[string]string
	retryConfig RetryConfig
	observer    RequestObserver
}

// NewClient creates a new API client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	retry := cfg.Retry
	if retry.ShouldRetry == nil {
		retry.ShouldRetry = retryable
	}
	if retry.Multiplier <= 0 {
		retry.Multiplier = 2.0
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = 2 * time.Second
	}
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.TLSSkipVerify, //nolint:gosec // opt-in for self-signed staging hosts
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		baseURL:     base,
		headers:     make(map[string]string),
		retryConfig: retry,
	}

	c.headers["Accept"] = "application/json"
	c.headers["User-Agent"] = "Ancestra-POS/1.0"
	if cfg.UserAgent != "" {
		c.headers["User-Agent"] = cfg.UserAgent
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Request represents an HTTP request to be executed.
type Request struct {
	Method      string
	Path        string
	Route       string // path template reported to the observer; defaults to Path
	QueryParams url.Values
	Body        any
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Do executes a request. GET requests are retried according to the retry
// config; anything else is sent exactly once. A non-2xx status yields an
// *APIError alongside the response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u := c.buildURL(req.Path, req.QueryParams)

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
	}

	maxRetries := 0
	if req.Method == http.MethodGet {
		maxRetries = c.retryConfig.MaxRetries
	}

	var (
		resp *Response
		err  error
	)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		var httpResp *http.Response
		resp, httpResp, err = c.roundTrip(ctx, req, u, payload)
		if attempt < maxRetries && ctx.Err() == nil && c.retryConfig.ShouldRetry(httpResp, err) {
			logger.L(ctx).Warn("Retrying business API request",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		break
	}
	if err != nil {
		return resp, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp, newAPIError(req.Method, req.Path, resp.StatusCode, resp.Body)
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req Request, u *url.URL, payload []byte) (*Response, *http.Response, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	ctx, span := telemetry.StartSpan(ctx, req.Method+" "+route,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("http.request.method", req.Method),
		telemetry.WithAttribute("url.full", u.String()),
	)
	defer span.End()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.setHeaders(ctx, httpReq, payload != nil)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		telemetry.RecordError(span, err)
		c.observe(req.Method, route, 0, duration)
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	telemetry.SetAttributes(span, "http.response.status_code", httpResp.StatusCode)
	if httpResp.StatusCode >= http.StatusInternalServerError {
		telemetry.RecordError(span, fmt.Errorf("upstream returned %d", httpResp.StatusCode))
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Duration:   duration,
	}
	resp.Body, err = io.ReadAll(httpResp.Body)
	c.observe(req.Method, route, httpResp.StatusCode, duration)
	if err != nil {
		return resp, httpResp, fmt.Errorf("reading response body: %w", err)
	}
	return resp, httpResp, nil
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, route, status, d)
	}
}

// buildURL appends path and query to the base URL, keeping the base path.
func (c *Client) buildURL(path string, query url.Values) *url.URL {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, hasBody bool) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	telemetry.InjectHeaders(ctx, req.Header)
}

// calculateBackoff calculates the backoff delay for the given attempt.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryConfig.RetryDelay) * math.Pow(c.retryConfig.Multiplier, float64(attempt-1))
	if delay > float64(c.retryConfig.MaxDelay) {
		delay = float64(c.retryConfig.MaxDelay)
	}
	// Add jitter (±25%)
	jitter := delay * 0.25
	delay = delay + (rand.Float64()*2-1)*jitter
	return time.Duration(delay)
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) getJSON(ctx context.Context, path, route string, query url.Values, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route, QueryParams: query})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *Response, out any) error {
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
