package metrics

import "github.com/prometheus/client_golang/prometheus"

// Check outcomes.
const (
	OutcomeNew       = "new"
	OutcomeDuplicate = "duplicate"
	OutcomeDegraded  = "degraded"
)

// Mark results.
const (
	ResultProcessed  = "processed"
	ResultFailed     = "failed"
	ResultWriteError = "write_error"
)

// Prometheus metrics for the idempotency gate
var (
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_checks_total",
			Help: "Total number of duplicate checks by outcome",
		},
		[]string{"outcome"},
	)

	MarkProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_mark_processed_total",
			Help: "Total number of processing outcomes recorded, by result",
		},
		[]string{"result"},
	)

	SweptRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventgate_swept_records_total",
			Help: "Total number of expired ledger records deleted",
		},
	)

	ArchivedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventgate_archived_records_total",
			Help: "Total number of expired ledger records written to the archive",
		},
	)

	WebhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventgate_webhook_requests_total",
			Help: "Total number of webhook deliveries received, by platform and response status",
		},
		[]string{"platform", "status"},
	)

	WebhookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventgate_webhook_duration_seconds",
			Help:    "Duration of webhook delivery handling",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)
)

// Register registers all gate metrics with reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(ChecksTotal)
	reg.MustRegister(MarkProcessedTotal)
	reg.MustRegister(SweptRecordsTotal)
	reg.MustRegister(ArchivedRecordsTotal)
	reg.MustRegister(WebhookRequestsTotal)
	reg.MustRegister(WebhookDuration)
}
