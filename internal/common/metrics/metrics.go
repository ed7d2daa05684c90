// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_source_fetch_total",
			Help: "Total connector fetch attempts by source and result",
		},
		[]string{"source", "result"},
	)

	SourceSignalsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_source_signals_collected_total",
			Help: "Total signals collected per source",
		},
		[]string{"source"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "trend_source_fetch_duration_seconds",
			Help: "Duration of connector fetches in seconds",
		},
		[]string{"source"},
	)
)
