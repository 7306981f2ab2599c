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

	EntitiesScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_entities_scored_total",
			Help: "Total entities scored, by entity kind and risk category",
		},
		[]string{"entity", "risk_category"},
	)

	ReviewsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_reviews_scored_total",
			Help: "Total reviews scored, by band (genuine or fake)",
		},
		[]string{"band"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_collaborator_failures_total",
			Help: "Failed collaborator lookups that degraded to a fail-safe default",
		},
		[]string{"collaborator"},
	)
)
