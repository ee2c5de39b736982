// Package metrics exposes Prometheus instruments for alignments, Monte Carlo
// trials and orchestrated workers. Instruments register with the default
// registry, which cmd/mismatch-server serves on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// alignmentsTotal counts global alignments by scoring mode
	alignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mismatch_alignments_total",
		Help: "Total global alignments by scoring mode",
	}, []string{"mode"})

	// alignmentDuration tracks matrix fill plus traceback time
	alignmentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mismatch_alignment_duration_seconds",
		Help:    "Global alignment duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"mode"})

	// alignmentColumns tracks alignment lengths
	alignmentColumns = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mismatch_alignment_columns",
		Help:    "Number of columns per alignment",
		Buckets: prometheus.ExponentialBuckets(16, 2, 10),
	})

	// trialsTotal counts Monte Carlo trials by cluster count and outcome
	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mismatch_trials_total",
		Help: "Total Monte Carlo trials by cluster count and outcome",
	}, []string{"clusters", "outcome"})

	// workerRuns counts orchestrated worker runs by result
	workerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mismatch_worker_runs_total",
		Help: "Total orchestrated worker runs by result",
	}, []string{"result"})

	// workerDuration tracks how long each worker ran
	workerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mismatch_worker_duration_seconds",
		Help:    "Worker run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
	})

	// httpRequests counts API requests by route and status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mismatch_http_requests_total",
		Help: "Total HTTP requests by route pattern and status code",
	}, []string{"route", "status"})
)

// ObserveAlignment records one finished alignment.
func ObserveAlignment(mode string, columns int, d time.Duration) {
	alignmentsTotal.WithLabelValues(mode).Inc()
	alignmentDuration.WithLabelValues(mode).Observe(d.Seconds())
	alignmentColumns.Observe(float64(columns))
}

// ObserveTrial records one Monte Carlo trial.
func ObserveTrial(clusters int, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	trialsTotal.WithLabelValues(strconv.Itoa(clusters), outcome).Inc()
}

// TrialHook returns a function suitable for simulation.WithTrialHook that
// counts trials for the given cluster count.
func TrialHook(clusters int) func(effect float64, success bool) {
	return func(_ float64, success bool) {
		ObserveTrial(clusters, success)
	}
}

// ObserveWorker records one worker run; err decides the result label.
func ObserveWorker(err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	workerRuns.WithLabelValues(result).Inc()
	workerDuration.Observe(d.Seconds())
}

// ObserveRequest records one HTTP request.
func ObserveRequest(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
