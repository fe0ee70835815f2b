// Package metrics defines the Prometheus metrics of the storefront client.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// RequestsTotal counts outbound gateway requests.
// Labels:
//   - method: HTTP method of the call
//   - outcome: "ok", "api_error", "unauthorized" or "transport_error"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of outbound requests issued through the gateway.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures outbound request latency end-to-end.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of outbound gateway requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionInvalidationsTotal counts forced logouts triggered by an
// authorization failure anywhere in the app.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated after an unauthorized response.",
	},
)

// CartReplacementsTotal counts wholesale replacements of the cached cart.
// Label:
//   - source: "refresh", "mutation" or "session"
var CartReplacementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_replacements_total",
		Help:      "Total number of times the local cart cache was replaced.",
	},
	[]string{"source"},
)

// CartStaleResponsesTotal counts cart responses discarded because a newer
// mutation had already been applied.
var CartStaleResponsesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_stale_responses_total",
		Help:      "Total number of out-of-order cart responses dropped by sequencing.",
	},
)
