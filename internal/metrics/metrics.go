package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for outbound gateway calls
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
}

// NewMetrics registers the gateway collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sqbpay",
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of requests sent to the payment gateway",
			},
			[]string{"op", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sqbpay",
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Gateway request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sqbpay",
				Subsystem: "gateway",
				Name:      "requests_in_flight",
				Help:      "Number of gateway requests awaiting a response",
			},
			[]string{"op"},
		),
	}
}

// Begin marks the start of a call to op. The returned func records the
// outcome and must be called exactly once. A nil *Metrics is a no-op.
func (m *Metrics) Begin(op string) func(status string) {
	if m == nil {
		return func(string) {}
	}

	m.RequestsInFlight.WithLabelValues(op).Inc()
	start := time.Now()

	return func(status string) {
		m.RequestsInFlight.WithLabelValues(op).Dec()
		m.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(op, status).Inc()
	}
}
