// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at package init and
// are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ObjectsCreated counts successfully created resources.
// Label:
//   - kind: resource kind ("vendor", "product", ...)
var ObjectsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "objects_created_total",
		Help:      "Total number of resources created, by kind.",
	},
	[]string{"kind"},
)

// UpdateConflicts counts conditional writes lost to a concurrent writer.
var UpdateConflicts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "update_conflicts_total",
		Help:      "Total number of optimistic updates that lost the fingerprint race.",
	},
	[]string{"kind"},
)

// UpdateRetries counts re-executions of the read-modify-write cycle.
var UpdateRetries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "update_retries_total",
		Help:      "Total number of optimistic update retries, by kind.",
	},
	[]string{"kind"},
)

// UpdateDuration measures one full update from first load to final commit or
// failure, including retries.
var UpdateDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "update_duration_seconds",
		Help:      "Duration of optimistic resource updates, by kind.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ImageUploads counts image upload attempts.
// Label:
//   - result: "accepted" or "rejected"
var ImageUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)
