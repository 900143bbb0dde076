// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// CompletionsTotal tracks model completion calls by outcome.
	CompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_completions_total",
			Help: "Total model completion calls",
		},
		[]string{"model", "status"},
	)

	// TokensTotal tracks model tokens processed.
	TokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_tokens_total",
			Help: "Total model tokens processed",
		},
		[]string{"model", "direction"},
	)

	// ConversationsTotal tracks conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatd_conversations_total",
			Help: "Total conversations created",
		},
	)

	// MessagesTotal tracks messages appended, by author role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_messages_total",
			Help: "Total messages appended",
		},
		[]string{"role"},
	)

	// ContextTurnsTrimmed tracks context turns dropped by the cache cap.
	ContextTurnsTrimmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatd_context_turns_trimmed_total",
			Help: "Context cache turns dropped by the per-conversation cap",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCompletion records a model completion call outcome.
func RecordCompletion(model, status string) {
	CompletionsTotal.WithLabelValues(model, status).Inc()
}

// RecordTokens records token counts for a completion.
func RecordTokens(model string, tokensIn, tokensOut int) {
	TokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	TokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
