package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the results module.
type Metrics struct {
	ResultsRecorded    *prometheus.CounterVec
	LeaderboardLatency prometheus.Histogram
}

// New creates a Metrics instance with all results module metrics registered.
func New() *Metrics {
	return &Metrics{
		ResultsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gala_results_recorded_total",
			Help: "Total results recorded by item type and position",
		}, []string{"item_type", "position"}),

		LeaderboardLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gala_leaderboard_compute_duration_seconds",
			Help:    "Duration of section leaderboard computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRecorded records one stored result.
func (m *Metrics) IncrementRecorded(itemType, position string) {
	if m != nil {
		m.ResultsRecorded.WithLabelValues(itemType, position).Inc()
	}
}

// ObserveLeaderboardLatency records one leaderboard computation.
func (m *Metrics) ObserveLeaderboardLatency(d time.Duration) {
	if m != nil {
		m.LeaderboardLatency.Observe(d.Seconds())
	}
}
