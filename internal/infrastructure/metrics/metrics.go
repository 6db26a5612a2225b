// Package metrics exposes Prometheus collectors for classification, advice
// and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors
type Metrics struct {
	classifications *prometheus.CounterVec
	fallthroughs    *prometheus.CounterVec
	advice          *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agri_classifications_total",
			Help: "Classifications served, by domain and winning strategy.",
		}, []string{"domain", "strategy"}),
		fallthroughs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agri_strategy_fallthrough_total",
			Help: "Strategy attempts that failed and fell through to the next strategy.",
		}, []string{"strategy", "reason"}),
		advice: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agri_advice_requests_total",
			Help: "Advice generation requests, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agri_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.classifications, m.fallthroughs, m.advice, m.httpDuration)
	return m
}

// ClassificationServed records a successful classification
func (m *Metrics) ClassificationServed(domain, strategy string) {
	m.classifications.WithLabelValues(domain, strategy).Inc()
}

// StrategyFellThrough records a recoverable strategy failure
func (m *Metrics) StrategyFellThrough(strategy, reason string) {
	m.fallthroughs.WithLabelValues(strategy, reason).Inc()
}

// AdviceOutcome records an advice request result
func (m *Metrics) AdviceOutcome(outcome string) {
	m.advice.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
