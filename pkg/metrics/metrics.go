// Package metrics exposes build pipeline counters on the controller-runtime
// metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	BuildsSubmitted = promauto.With(ctrlmetrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "trainforge_builds_submitted_total",
		Help: "Number of environment builds submitted.",
	})

	BuildsByStatus = promauto.With(ctrlmetrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "trainforge_builds_total",
		Help: "Number of build status transitions observed, by status entered.",
	}, []string{"status"})

	BuildDuration = promauto.With(ctrlmetrics.Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "trainforge_build_duration_seconds",
		Help:    "Wall time from build submission to a terminal status.",
		Buckets: prometheus.ExponentialBuckets(30, 2, 10),
	})
)
