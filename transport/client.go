package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent identifies this client to the catalog service
	DefaultUserAgent = "Music-Catalog-API-Tests/1.0.0"
	// DefaultMaxBackoff caps the delay between two attempts
	DefaultMaxBackoff = 30 * time.Second

	maxLoggedBody = 500
)

// DefaultRetryableStatusCodes are retried when Config.RetryableStatusCodes is nil
var DefaultRetryableStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Config holds the request policy of a Client.
//
// Timeout applies to each attempt, not to the whole call. With MaxRetries=3
// and Timeout=30s a single Execute can block for roughly 4*30s plus the
// backoff delays; size external deadlines accordingly.
type Config struct {
	// BaseURL must start with http:// or https://. A trailing slash is dropped.
	BaseURL string
	// APIKey is sent as a bearer token when set
	APIKey string
	// Timeout bounds a single attempt and must be positive
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// RetryBackoff is the delay before the first retry; it doubles on every retry
	RetryBackoff time.Duration
	// MaxBackoff caps the retry delay. Zero means DefaultMaxBackoff.
	MaxBackoff time.Duration
	// RetryableStatusCodes are retried. Nil means DefaultRetryableStatusCodes.
	RetryableStatusCodes []int
	// UserAgent overrides DefaultUserAgent
	UserAgent string
}

// Response is the outcome of the last attempt of a call
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Attempts is the number of requests sent for this call
	Attempts int
	// RequestID is the X-Request-Id shared by every attempt of the call
	RequestID string
}

// IsSuccess reports whether the status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client executes JSON requests against a single base URL. It is safe for
// concurrent use; attempts of one call are always sequential.
type Client struct {
	baseURL    string
	logURL     string
	apiKey     string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	retryable  map[int]struct{}
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Response]
}

// errServerFailure marks a 5xx response as a failure for the circuit breaker
var errServerFailure = errors.New("server failure")

// New validates cfg and creates a Client
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, &ConfigError{Field: "base_url", Value: cfg.BaseURL, Reason: "must start with http:// or https://"}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, &ConfigError{Field: "base_url", Value: cfg.BaseURL, Reason: "must be an absolute URL with a host"}
	}
	if cfg.Timeout <= 0 {
		return nil, &ConfigError{Field: "timeout", Value: cfg.Timeout.String(), Reason: "must be positive"}
	}
	if cfg.MaxRetries < 0 {
		return nil, &ConfigError{Field: "max_retries", Value: fmt.Sprint(cfg.MaxRetries), Reason: "must not be negative"}
	}
	if cfg.RetryBackoff < 0 {
		return nil, &ConfigError{Field: "retry_backoff", Value: cfg.RetryBackoff.String(), Reason: "must not be negative"}
	}

	options := clientOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	c := &Client{
		baseURL:    baseURL,
		logURL:     parsed.Redacted(),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		maxBackoff: cfg.MaxBackoff,
		retryable:  make(map[int]struct{}),
		httpClient: options.httpClient,
		logger:     logger,
		metrics:    options.metrics,
		limiter:    options.limiter,
	}

	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.maxBackoff <= 0 {
		c.maxBackoff = DefaultMaxBackoff
	}
	codes := cfg.RetryableStatusCodes
	if codes == nil {
		codes = DefaultRetryableStatusCodes
	}
	for _, code := range codes {
		c.retryable[code] = struct{}{}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if options.breaker != nil {
		c.breaker = newCircuitBreaker(*options.breaker, logger)
	}

	return c, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	return c.Execute(ctx, http.MethodGet, endpoint, nil, params)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPost, endpoint, body, nil)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Execute(ctx, http.MethodPut, endpoint, body, nil)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string) (*Response, error) {
	return c.Execute(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Execute sends a request and applies the retry policy.
//
// Retryable status codes and network failures are retried up to MaxRetries
// times. When retries run out on a retryable status the last response is
// returned with a nil error; when they run out on network failures a
// *NetworkError is returned. Any other status is returned as is, so the
// caller decides what a non-2xx response means. An open circuit breaker ends
// the call early: with the last retryable response if the service answered
// at all, otherwise with a *NetworkError.
func (c *Client) Execute(ctx context.Context, method, endpoint string, body any, params url.Values) (*Response, error) {
	target := c.buildURL(endpoint, params)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", c.redact(target)).
		Logger()

	var lastErr error
	var lastResp *Response
	sent := 0
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.backoffFor(attempt-1)); err != nil {
				return nil, c.networkError(method, target, sent, err)
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, c.networkError(method, target, sent, err)
			}
		}

		req, err := c.newRequest(ctx, method, target, payload, requestID)
		if err != nil {
			return nil, err
		}

		sent++
		start := time.Now()
		resp, err := c.do(req)
		elapsed := time.Since(start)

		event := logger.Debug().Int("attempt", sent).Dur("elapsed", elapsed)
		if len(payload) > 0 {
			event = event.Str("request_body", truncate(string(payload), maxLoggedBody))
		}

		if err != nil {
			c.metrics.observeAttempt(method, outcomeError, elapsed)
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				event.Discard()
				logger.Warn().Err(err).Msg("Circuit breaker rejected catalog API request")
				if lastResp != nil {
					// the service did answer; report its last status, not a network failure
					c.metrics.observeExhausted(reasonStatus)
					return lastResp, nil
				}
				return nil, c.networkError(method, target, sent-1, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				event.Err(err).Msg("Catalog API request cancelled")
				return nil, c.networkError(method, target, sent, ctxErr)
			}
			event.Err(err).Msg("Catalog API request failed")
			lastErr = err
			if attempt < c.maxRetries {
				c.metrics.observeRetry(reasonNetwork)
			}
			continue
		}

		resp.Attempts = sent
		resp.RequestID = requestID
		event.Int("status", resp.StatusCode).
			Str("response_body", truncate(string(resp.Body), maxLoggedBody)).
			Msg("Catalog API request")

		if c.isRetryable(resp.StatusCode) {
			c.metrics.observeAttempt(method, outcomeRetryable, elapsed)
			lastResp = resp
			if attempt < c.maxRetries {
				c.metrics.observeRetry(reasonStatus)
				continue
			}
			c.metrics.observeExhausted(reasonStatus)
			logger.Warn().Int("status", resp.StatusCode).Int("attempts", sent).
				Msg("Retries exhausted, returning last response")
			return resp, nil
		}

		if resp.IsSuccess() {
			c.metrics.observeAttempt(method, outcomeSuccess, elapsed)
		} else {
			c.metrics.observeAttempt(method, outcomeFailure, elapsed)
		}
		return resp, nil
	}

	c.metrics.observeExhausted(reasonNetwork)
	logger.Error().Err(lastErr).Int("attempts", sent).Msg("Catalog API unreachable, retries exhausted")
	return nil, c.networkError(method, target, sent, lastErr)
}

func (c *Client) newRequest(ctx context.Context, method, target string, payload []byte, requestID string) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return req, nil
}

// do sends one attempt, routing it through the circuit breaker when configured
func (c *Client) do(req *http.Request) (*Response, error) {
	if c.breaker == nil {
		return c.roundTrip(req)
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		resp, err := c.roundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerFailure
		}
		return resp, nil
	})
	if errors.Is(err, errServerFailure) {
		return resp, nil
	}
	return resp, err
}

func (c *Client) roundTrip(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}
	return target
}

// redact hides userinfo embedded in the base URL
func (c *Client) redact(target string) string {
	return c.logURL + strings.TrimPrefix(target, c.baseURL)
}

func (c *Client) isRetryable(status int) bool {
	_, ok := c.retryable[status]
	return ok
}

// backoffFor returns the delay before retry number retry (zero based)
func (c *Client) backoffFor(retry int) time.Duration {
	delay := c.backoff
	for i := 0; i < retry && delay < c.maxBackoff; i++ {
		delay *= 2
	}
	if delay > c.maxBackoff {
		delay = c.maxBackoff
	}
	return delay
}

func (c *Client) networkError(method, target string, attempts int, err error) *NetworkError {
	return &NetworkError{
		Method:   method,
		URL:      c.redact(target),
		Attempts: attempts,
		Err:      err,
	}
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
