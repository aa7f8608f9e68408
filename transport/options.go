package transport

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds the optional collaborators of a Client.
type clientOptions struct {
	httpClient *http.Client
	metrics    *Metrics
	limiter    *rate.Limiter
	breaker    *BreakerSettings
}

// BreakerSettings configures the circuit breaker installed by WithCircuitBreaker.
type BreakerSettings struct {
	// Name labels log records and metrics
	Name string
	// ConsecutiveFailures opens the circuit once reached
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before probing again
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open
	HalfOpenRequests uint32
}

// WithHTTPClient replaces the default HTTP client. The supplied client's own
// Timeout is used in place of Config.Timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithMetrics records attempts, retries and latency.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// WithRateLimiter waits on limiter before every attempt, retries included.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(o *clientOptions) {
		o.limiter = limiter
	}
}

// WithCircuitBreaker fails calls fast while the service keeps failing.
// Network errors and 5xx responses count as failures. A rejected call
// returns a *NetworkError without using up retries.
func WithCircuitBreaker(settings BreakerSettings) Option {
	return func(o *clientOptions) {
		o.breaker = &settings
	}
}
