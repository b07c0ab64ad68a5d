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
		[]string{"task_type", "outcome"},
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

	HealthScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_score",
			Help:    "Distribution of total financial health scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"planning_type", "band"},
	)

	HealthFactorScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_factor_score",
			Help:    "Distribution of individual factor scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"factor"},
	)

	HealthReportsDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "health_reports_degraded_total",
			Help: "Reports returned in degraded form after an unexpected failure",
		},
	)

	ReportCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_report_cache_requests_total",
			Help: "Report cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_notifications_total",
			Help: "Notification attempts by channel and result",
		},
		[]string{"channel", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served by the health score API",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency",
		},
		[]string{"method", "route"},
	)
)

// ObserveReport records the total and per-factor scores of one report.
func ObserveReport(planningType, band string, score int, factors map[string]int, degraded bool) {
	if degraded {
		HealthReportsDegraded.Inc()
		return
	}
	HealthScores.WithLabelValues(planningType, band).Observe(float64(score))
	for factor, s := range factors {
		HealthFactorScores.WithLabelValues(factor).Observe(float64(s))
	}
}
