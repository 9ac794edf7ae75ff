// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the counters.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Translation metrics
	TranslationRequestsTotal   *prometheus.CounterVec
	TranslationDurationSeconds *prometheus.HistogramVec

	// Feedback metrics
	VotesTotal            *prometheus.CounterVec
	PersistFailuresTotal  prometheus.Counter
	SlackAPIRequestsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "varname_webhook_requests_total",
				Help: "Total number of inbound Slack requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // endpoint: command, interaction
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "varname_webhook_duration_seconds",
				Help:    "Time to acknowledge an inbound Slack request",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 3},
			},
			[]string{"endpoint"},
		),

		TranslationRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "varname_translation_requests_total",
				Help: "Total number of translation calls by provider and status",
			},
			[]string{"provider", "status"},
		),

		TranslationDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "varname_translation_duration_seconds",
				Help:    "Translation call duration in seconds by provider",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"provider"},
		),

		VotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "varname_votes_total",
				Help: "Total number of vote attempts by column and outcome",
			},
			[]string{"column", "outcome"}, // outcome: updated, already_voted, not_found, ignored, failed
		),

		PersistFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "varname_feedback_persist_failures_total",
				Help: "Posted messages whose feedback row could not be stored",
			},
		),

		SlackAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "varname_slack_api_requests_total",
				Help: "Total number of Slack Web API calls by method and status",
			},
			[]string{"method", "status"},
		),
	}
}

// RecordWebhook records an acknowledged inbound request.
func (m *Metrics) RecordWebhook(endpoint, status string, duration float64) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordTranslation records one translation call.
func (m *Metrics) RecordTranslation(provider, status string, duration float64) {
	if m == nil {
		return
	}
	m.TranslationRequestsTotal.WithLabelValues(provider, status).Inc()
	m.TranslationDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordVote records a vote attempt.
func (m *Metrics) RecordVote(column, outcome string) {
	if m == nil {
		return
	}
	m.VotesTotal.WithLabelValues(column, outcome).Inc()
}

// RecordSlackAPI records a Slack Web API call.
func (m *Metrics) RecordSlackAPI(method string, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.SlackAPIRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordPersistFailure records a message that was posted without a feedback row.
func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailuresTotal.Inc()
}
