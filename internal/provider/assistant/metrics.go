package assistant

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_runs_total",
			Help: "Assistant runs by terminal outcome (poll_timeout when none was reached).",
		},
		[]string{"status"},
	)
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_run_duration_seconds",
			Help:    "Time from the first status fetch until the run settled.",
			Buckets: prometheus.DefBuckets,
		},
	)
	runPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_run_poll_attempts",
			Help:    "Status fetches spent per run.",
			Buckets: prometheus.LinearBuckets(1, 2, 15),
		},
	)
)

func observeRun(status string, attempts int, elapsed time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	runPollAttempts.Observe(float64(attempts))
	runDuration.Observe(elapsed.Seconds())
}
