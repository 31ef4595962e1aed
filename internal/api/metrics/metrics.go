// Package metrics defines and registers all custom Prometheus metrics for
// the knowledge helper. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at init via promauto; the HTTP
// middleware and /metrics endpoint come from echo-contrib.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "knowledge"

// QueriesTotal counts chat queries by analytics category and outcome.
// Labels:
//   - query_type: the classification bucket (e.g. "PTO & Leave", "General")
//   - outcome: "ok" or "error"
var QueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of chat queries processed, by type and outcome.",
	},
	[]string{"query_type", "outcome"},
)

// GatewayDuration measures the end-to-end chat processing time, dominated by
// the external model call.
// Label:
//   - outcome: "ok", "rate_limited", "timeout", or "api_error"
var GatewayDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_duration_seconds",
		Help:      "Duration of query processing including the external model call.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"outcome"},
)

// DocumentsMatched observes how many documents the relevance filter selected
// per query (0 means the model was told no source was found).
var DocumentsMatched = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "documents_matched",
		Help:      "Number of documents selected by the relevance filter per query.",
		Buckets:   []float64{0, 1, 2, 3},
	},
)

// ActiveSessions tracks the current number of live sessions in the store.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of unexpired sessions held in memory.",
	},
)
