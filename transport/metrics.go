package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess   = "success"
	outcomeRetryable = "retryable_status"
	outcomeFailure   = "failure_status"
	outcomeError     = "network_error"

	reasonStatus  = "status"
	reasonNetwork = "network"
)

// Metrics holds the Prometheus collectors of a Client. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	exhausted *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewMetrics creates the transport collectors and registers them on reg.
// Passing a nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogprobe",
			Subsystem: "transport",
			Name:      "attempts_total",
			Help:      "Requests sent to the catalog API, by method and outcome.",
		}, []string{"method", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogprobe",
			Subsystem: "transport",
			Name:      "retries_total",
			Help:      "Retries scheduled, by reason.",
		}, []string{"reason"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogprobe",
			Subsystem: "transport",
			Name:      "retries_exhausted_total",
			Help:      "Calls that ran out of retries, by reason.",
		}, []string{"reason"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalogprobe",
			Subsystem: "transport",
			Name:      "attempt_duration_seconds",
			Help:      "Latency of a single attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.attempts, m.retries, m.exhausted, m.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *Metrics) observeAttempt(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRetry(reason string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeExhausted(reason string) {
	if m == nil {
		return
	}
	m.exhausted.WithLabelValues(reason).Inc()
}
