package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the certificates module.
type Metrics struct {
	Issued          *prometheus.CounterVec
	IssueFailures   *prometheus.CounterVec
	RendererLatency prometheus.Histogram
}

// New creates a Metrics instance with all certificates module metrics registered.
func New() *Metrics {
	return &Metrics{
		Issued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gala_certificates_issued_total",
			Help: "Total certificates issued by award type and outcome",
		}, []string{"award_type", "outcome"}),

		IssueFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gala_certificate_issue_failures_total",
			Help: "Total failed issuance attempts by failure stage",
		}, []string{"stage"}),

		RendererLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gala_renderer_dispatch_duration_seconds",
			Help:    "Duration of certificate renderer dispatch calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementIssued records one completed issuance. Outcome is "created" for a
// new certificate and "existing" for an idempotent replay.
func (m *Metrics) IncrementIssued(awardType, outcome string) {
	if m != nil {
		m.Issued.WithLabelValues(awardType, outcome).Inc()
	}
}

// IncrementFailure records one failed issuance attempt at the given stage.
func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.IssueFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRendererLatency records one renderer dispatch round trip.
func (m *Metrics) ObserveRendererLatency(d time.Duration) {
	if m != nil {
		m.RendererLatency.Observe(d.Seconds())
	}
}
