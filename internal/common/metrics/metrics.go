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

	// Settlement metrics. Amounts are in minor currency units.
	SettlementAmountMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_amount_moved_total",
			Help: "Total amount moved through the ledger by entry kind",
		},
		[]string{"kind"},
	)

	SettlementRefunds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_refunds_total",
			Help: "Total number of refunds issued by tier",
		},
		[]string{"tier"},
	)

	SettlementCommission = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_commission_total",
			Help: "Total commission withheld on auto-completed bookings",
		},
	)

	SweepBookingsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_bookings_processed_total",
			Help: "Bookings processed by the auto-complete sweep",
		},
		[]string{"result"},
	)

	SweepBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_batch_size",
			Help:    "Number of stale bookings found per sweep run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)
