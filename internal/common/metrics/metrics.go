// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DialogTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_turns_total",
			Help: "Total number of dialog turns resolved, by intent and action taken",
		},
		[]string{"intent", "action"},
	)

	RequestsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_requests_enqueued_total",
			Help: "Total number of fulfillment requests enqueued",
		},
	)

	MessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_messages_processed_total",
			Help: "Total number of queue messages fully processed and deleted",
		},
	)

	MessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_messages_failed_total",
			Help: "Total number of queue messages that failed processing",
		},
		[]string{"error_code"},
	)

	MessagesDeadLettered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_messages_dead_lettered_total",
			Help: "Total number of queue messages forwarded to the dead-letter queue",
		},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_emails_sent_total",
			Help: "Total number of suggestion emails sent, by outcome",
		},
		[]string{"outcome"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "fulfillment_batch_duration_seconds",
			Help: "Duration of one receive-process-delete batch in seconds",
		},
	)
)
