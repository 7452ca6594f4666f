package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_jobs_accepted_total",
			Help: "Total number of job offers accepted during negotiation",
		},
	)

	JobsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_jobs_rejected_total",
			Help: "Total number of job offers rejected during negotiation",
		},
	)

	JobsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_jobs_delivered_total",
			Help: "Total number of deliverables submitted, by job kind",
		},
		[]string{"job_kind"},
	)

	DeliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_delivery_failures_total",
			Help: "Total number of failed deliverable submissions, by job kind",
		},
		[]string{"job_kind"},
	)

	ComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "agent_compute_duration_seconds",
			Help: "Duration of deliverable computation in seconds",
		},
		[]string{"job_kind"},
	)

	ContextStoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agent_context_store_entries",
			Help: "Number of cached job metadata entries awaiting delivery",
		},
	)
)
