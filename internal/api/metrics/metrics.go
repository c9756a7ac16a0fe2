// Package metrics defines and registers all custom Prometheus metrics of the
// workshop back office. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on import.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workshop"

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsTotal counts enrollment proposals by outcome.
// Label:
//   - result: "confirmed", "pending", "duplicate", "capacity", "invalid", "busy" or "error"
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of enrollment proposals, by outcome.",
	},
	[]string{"result"},
)

// DispatcherQueueDepth tracks the jobs waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DispatcherQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatcher_queue_depth",
		Help:      "Current number of jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsRenderedTotal counts rendered reports.
// Labels:
//   - type: report type (e.g. "revenue_by_method")
//   - format: "json" or "csv"
var ReportsRenderedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_rendered_total",
		Help:      "Total number of reports served, by type and format.",
	},
	[]string{"type", "format"},
)

// ReportCacheTotal counts report cache lookups.
// Label:
//   - result: "hit" or "miss"
var ReportCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_total",
		Help:      "Total number of report cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Snapshot metrics ──────────────────────────────────────────────────────────

// SnapshotRefreshDuration measures how long a full reload takes.
// Label:
//   - result: "ok" or "error"
var SnapshotRefreshDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_refresh_duration_seconds",
		Help:      "Duration of a full snapshot reload from the store.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// ObserveRefresh matches snapshot.RefreshObserver.
func ObserveRefresh(elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SnapshotRefreshDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ObserveQueueDepth matches queue.DepthObserver.
func ObserveQueueDepth(worker, depth int) {
	DispatcherQueueDepth.WithLabelValues(strconv.Itoa(worker)).Set(float64(depth))
}
