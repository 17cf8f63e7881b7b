package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes.
const (
	OutcomeValidation  = "validation_failed"
	OutcomePersistence = "persistence_failed"
	OutcomePayment     = "payment_failed"
	OutcomeUnexpected  = "unexpected_failed"
	OutcomeCompleted   = "completed"
	OutcomeRedirected  = "redirected"
)

// Payment session results.
const (
	ResultCreated = "created"
	ResultFailed  = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	checkoutTotal   *prometheus.CounterVec
	submitDuration  prometheus.Histogram
	paymentSessions *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout submissions by outcome.",
		}, []string{"outcome"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_submit_duration_seconds",
			Help:    "Time spent handling a checkout submission.",
			Buckets: prometheus.DefBuckets,
		}),
		paymentSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_sessions_total",
			Help: "Hosted payment sessions requested, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.checkoutTotal,
		m.submitDuration,
		m.paymentSessions,
	)
	return m
}

func (m *Metrics) ObserveCheckout(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(outcome).Inc()
	m.submitDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) PaymentSession(result string) {
	if m == nil {
		return
	}
	m.paymentSessions.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
