// Package metrics defines and registers all custom Prometheus metrics for the
// clinic scheduling API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load time; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Appointment metrics ───────────────────────────────────────────────────────

// AppointmentsCreatedTotal counts newly booked appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments created.",
	},
)

// StatusTransitionsTotal counts successful status transitions.
// Labels:
//   - from: the status before the transition (e.g. "scheduled")
//   - to:   the status after the transition (e.g. "completed")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of successful appointment status transitions.",
	},
	[]string{"from", "to"},
)

// TransitionsRejectedTotal counts status changes rejected by the validator.
// Label:
//   - rule: the rule that rejected ("role", "transition_table", "same_day_window")
var TransitionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_rejected_total",
		Help:      "Total number of status transitions rejected, by failed rule.",
	},
	[]string{"rule"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthDenialsTotal counts requests denied by the authorization resolver.
// Labels:
//   - operation: the guarded operation name (e.g. "appointments.list")
//   - reason:    "unauthenticated" or "forbidden"
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of requests denied by the authorization resolver.",
	},
	[]string{"operation", "reason"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of transition events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of transition events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts transition events that could not be
// persisted to the audit trail.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of transition events that failed to persist.",
	},
)
