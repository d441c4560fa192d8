package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookEventsTotal counts ingestion outcomes per topic (accepted, duplicate, failed, rejected).
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ginee",
			Name:      "webhook_events_total",
			Help:      "Total number of Ginee webhook events by topic and result",
		},
		[]string{"topic", "result"},
	)

	// WebhookIngestDuration measures the store round trip of a single ingest call.
	WebhookIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ginee",
			Name:      "webhook_ingest_duration_seconds",
			Help:      "Duration of webhook ingestion",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)

	// DispatchFailuresTotal counts accepted events that could not be handed downstream.
	DispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ginee",
			Name:      "dispatch_failures_total",
			Help:      "Total number of accepted events whose downstream hand-off failed",
		},
		[]string{"topic"},
	)

	VoucherChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voucher",
			Name:      "checks_total",
			Help:      "Total number of voucher validations by result",
		},
		[]string{"result"},
	)

	JobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobqueue",
			Name:      "jobs_processed_total",
			Help:      "Total number of processed jobs by type and status",
		},
		[]string{"type", "status"},
	)

	// JobQueueDepth tracks the pending and processing list lengths.
	JobQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jobqueue",
			Name:      "depth",
			Help:      "Number of jobs per queue list",
		},
		[]string{"list"},
	)
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
