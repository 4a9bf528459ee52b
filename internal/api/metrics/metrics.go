// Package metrics defines and registers all custom Prometheus metrics for
// the scan API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry at
// package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scanapi"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UploadsRejectedTotal counts uploads refused before ingestion.
// Label:
//   - reason: "media_type", "too_large", or "missing_file"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of rejected uploads, by reason.",
	},
	[]string{"reason"},
)

// InferenceRunsTotal counts worker invocations.
// Label:
//   - outcome: "ok", "exec_error", "worker_error", or "malformed"
var InferenceRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_runs_total",
		Help:      "Total number of worker invocations, by outcome.",
	},
	[]string{"outcome"},
)

// InferenceDuration measures wall time of a single worker invocation from
// spawn to exit.
// Label:
//   - outcome: same values as InferenceRunsTotal
var InferenceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inference_duration_seconds",
		Help:      "Duration of worker invocations from spawn to exit.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
	},
	[]string{"outcome"},
)

// InferenceInFlight tracks the number of worker processes currently running.
// Bounded above by the configured concurrency limit.
var InferenceInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inference_in_flight",
		Help:      "Number of worker processes currently running.",
	},
)

// InferenceCacheTotal counts result-cache lookups.
// Label:
//   - result: "hit" or "miss"
var InferenceCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inference_cache_total",
		Help:      "Total number of result cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
