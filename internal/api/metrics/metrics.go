// Package metrics defines all custom Prometheus metrics for the identity
// service. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// SignupsTotal counts signup attempts by outcome.
// Labels:
//   - result: "created", "conflict", "invalid", "error"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// SigninsTotal counts sign-in attempts by strategy and outcome.
// Labels:
//   - strategy: "credentials" or "social"
//   - result: "ok" or "unauthorized"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by strategy and result.",
	},
	[]string{"strategy", "result"},
)

// TokenVerificationsTotal counts session-token verifications at the guard.
// Label:
//   - result: "ok", "invalid", "user_not_found"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of session token verifications, by result.",
	},
	[]string{"result"},
)

// SignupDuration measures the end-to-end duration of the signup transaction.
var SignupDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "signup_duration_seconds",
		Help:      "Duration of the signup transaction from request to commit.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ThrottledRequestsTotal counts requests rejected by the auth throttle.
var ThrottledRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "throttled_requests_total",
		Help:      "Total number of requests rejected by the auth rate limit.",
	},
)
