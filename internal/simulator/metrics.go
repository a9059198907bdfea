package simulator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	simulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatif_simulations_total",
			Help: "Total number of scenario simulations, partitioned by outcome.",
		},
		[]string{"status"},
	)
	simulationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatif_simulation_failures_total",
			Help: "Total number of failed simulations, partitioned by error kind.",
		},
		[]string{"kind"},
	)
	simulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "whatif_simulation_duration_seconds",
			Help:    "Histogram of end-to-end simulation durations.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// recordSimulation пишет prometheus-метрики одного запроса.
// Вызывается только при включенном EnableMetrics.
func recordSimulation(success bool, errorKind string, duration time.Duration) {
	status := "success"
	if !success {
		status = "failed"
		if errorKind == "" {
			errorKind = "unknown"
		}
		simulationFailures.With(prometheus.Labels{"kind": errorKind}).Inc()
	}
	simulationsTotal.With(prometheus.Labels{"status": status}).Inc()
	simulationDuration.Observe(duration.Seconds())
}
