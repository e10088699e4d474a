// Package metrics defines and registers the custom Prometheus metrics of the
// ProtoRH API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "protorh"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts /connect outcomes.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SessionValidationsTotal counts bearer token checks done by the auth middleware.
// Label:
//   - result: "valid", "expired", "malformed" or "missing"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session token validations, labelled by result.",
	},
	[]string{"result"},
)

// AccessDenialsTotal counts policy denials surfaced to clients.
// Label:
//   - action: the denied action (e.g. "profile.update")
var AccessDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denials_total",
		Help:      "Total number of requests denied by the access policy, by action.",
	},
	[]string{"action"},
)

// ── HR request metrics ────────────────────────────────────────────────────────

// HRRequestMutationsTotal counts committed HR request mutations.
// Label:
//   - kind: "hr_request.created", "hr_request.edited" or "hr_request.closed"
var HRRequestMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hr_request_mutations_total",
		Help:      "Total number of committed HR request mutations, by kind.",
	},
	[]string{"kind"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsTotal counts sink writes.
// Labels:
//   - sink: the sink name ("mongo", "amqp")
//   - result: "ok", "error" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events handled per sink, labelled by result.",
	},
	[]string{"sink", "result"},
)

// AuditQueueDepth tracks the events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures one sink write.
// Label:
//   - sink: the sink name
var AuditWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit sink write.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"sink"},
)
