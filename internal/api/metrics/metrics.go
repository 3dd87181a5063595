// Package metrics defines all custom Prometheus metrics for the TaskMaster
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmaster"

// ---------------------------------------------------------------------------
// Push-channel metrics
// ---------------------------------------------------------------------------

// WebsocketConnections tracks the current number of open push-channel handles
// across all users (a user with two devices counts twice).
var WebsocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connections",
		Help:      "Current number of open websocket connection handles.",
	},
)

// WebsocketConnectedUsers tracks the number of distinct users with at least
// one open push channel.
var WebsocketConnectedUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_connected_users",
		Help:      "Current number of distinct users with a live websocket connection.",
	},
)

// WebsocketPushesDelivered counts frames delivered to a live handle.
var WebsocketPushesDelivered = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "websocket_pushes_delivered_total",
		Help:      "Total number of push frames successfully written to a connection.",
	},
)

// WebsocketPushFailures counts sends that failed and killed their handle.
var WebsocketPushFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "websocket_push_failures_total",
		Help:      "Total number of failed push frame writes (each disconnects its handle).",
	},
)

// ---------------------------------------------------------------------------
// Notification metrics
// ---------------------------------------------------------------------------

// NotificationsCreatedTotal counts persisted notification records.
// Label:
//   - type: the notification category (e.g. "task_assigned")
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notification records persisted, by type.",
	},
	[]string{"type"},
)

// ---------------------------------------------------------------------------
// Authorization metrics
// ---------------------------------------------------------------------------

// AccessDeniedTotal counts authorization denials.
// Label:
//   - operation: the gated operation (e.g. "task_modify", "member_remove")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authorization denials, by operation.",
	},
	[]string{"operation"},
)

// ---------------------------------------------------------------------------
// Activity-log metrics
// ---------------------------------------------------------------------------

// ActivityQueueDepth tracks the number of audit entries waiting in each
// activity dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityWriteFailures counts audit entries that could not be persisted.
// Activity writes are best-effort; failures are logged and dropped.
var ActivityWriteFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_write_failures_total",
		Help:      "Total number of audit entries dropped after a persistence failure.",
	},
)
