package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_agent_http_requests_total",
			Help: "Total HTTP requests served by the agent",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rbm_agent_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RBM API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_api_requests_total",
			Help: "Total RBM API requests",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "rejected", "transport"
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rbm_api_request_duration_seconds",
			Help:    "RBM API request duration",
			Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	APIRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_api_retries_total",
			Help: "Total RBM API retries after a transient failure",
		},
		[]string{"operation"},
	)

	// Webhook metrics
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_webhook_events_total",
			Help: "Total webhook notifications received",
		},
		[]string{"kind"},
	)

	WebhookRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_webhook_rejected_total",
			Help: "Total webhook requests rejected",
		},
		[]string{"reason"},
	)

	// Bot metrics
	BotRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbm_bot_replies_total",
			Help: "Total bot replies sent",
		},
		[]string{"reply"},
	)

	DuplicateMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rbm_duplicate_messages_total",
			Help: "Total inbound messages skipped as redeliveries",
		},
	)
)
