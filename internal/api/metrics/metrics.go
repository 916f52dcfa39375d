// Package metrics defines the custom Prometheus metrics of the directory API.
// It is the single source of truth for metric names, labels, and help strings.
//
// All metrics are registered with the default registry through promauto and
// exposed on /metrics next to the HTTP metrics of the echoprometheus
// middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "directory"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AssociationsWrittenTotal counts association rows written by replace calls.
// Label:
//   - kind: "services" or "counties"
var AssociationsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "associations_written_total",
		Help:      "Total number of association rows written by replace-all updates.",
	},
	[]string{"kind"},
)

// AssociationNamesDroppedTotal counts requested names that did not resolve.
// Label:
//   - kind: "services" or "counties"
var AssociationNamesDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "association_names_dropped_total",
		Help:      "Total number of requested service or county names that matched no reference row.",
	},
	[]string{"kind"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: "general" or "auth"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"scope"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailsTotal counts delivery outcomes.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var EmailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_total",
		Help:      "Total number of outbound emails, by delivery result.",
	},
	[]string{"result"},
)

// EmailQueueDepth tracks the number of messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EmailDeliveryDuration measures a single delivery attempt.
// Label:
//   - result: "sent" or "failed"
var EmailDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "email_delivery_duration_seconds",
		Help:      "Duration of a single email delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
