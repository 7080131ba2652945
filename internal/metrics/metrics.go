package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels computations that produced a result.
	OutcomeSuccess = "success"
	// OutcomeInvalid labels requests rejected for malformed or out-of-range input.
	OutcomeInvalid = "invalid"
	// OutcomeError labels computations that failed inside the engine or oracle.
	OutcomeError = "error"
)

var (
	computationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "natal_engine",
			Name:      "computations_total",
			Help:      "Total number of chart computations handled, partitioned by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	computationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "natal_engine",
			Name:      "computation_seconds",
			Help:      "Chart computation latency in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Register attaches natal-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		computationsTotal,
		computationDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveComputation records a computation duration and outcome label.
func ObserveComputation(operation string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeInvalid, OutcomeError:
	default:
		outcome = OutcomeError
	}
	computationsTotal.WithLabelValues(operation, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	computationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}
