// Package metrics defines the domain Prometheus metrics of the production
// tracker. HTTP request metrics come from echoprometheus.
//
// Metrics are registered with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly opened jobs.
// Label:
//   - priority: the priority given at creation
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of jobs created, by priority.",
	},
	[]string{"priority"},
)

// JobLogsAppendedTotal counts stage transitions recorded through the log endpoint.
// Label:
//   - stage: the stage the job moved to
var JobLogsAppendedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_logs_appended_total",
		Help:      "Total number of job log entries appended, by stage.",
	},
	[]string{"stage"},
)

// HistoryMergeEntriesTotal counts history entries received by job updates.
// Label:
//   - result: "appended" (new id) or "skipped" (already known)
var HistoryMergeEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_merge_entries_total",
		Help:      "Total number of history entries seen by job updates, labelled by result.",
	},
	[]string{"result"},
)

// ── Worker metrics ────────────────────────────────────────────────────────────

// DailyLogsTotal counts daily logs by type (Start, End, StartWork, CompleteWork).
var DailyLogsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "daily_logs_total",
		Help:      "Total number of daily logs recorded, by type.",
	},
	[]string{"type"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - method: "password" or "pin"
//   - result: "ok", "rejected" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts by result ("ok", "rejected", "error").
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by result.",
	},
	[]string{"result"},
)

// UploadBytes observes the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size of accepted uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 7), // 16KiB .. 64MiB
	},
)
