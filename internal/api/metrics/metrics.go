// Package metrics defines and registers all custom Prometheus metrics for
// the inventory API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inventory"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts refresh-token rotations.
// Label:
//   - result: "success" or "failure"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// GateDecisionsTotal counts gate outcomes per canonical route.
// Labels:
//   - route: the registered route pattern (e.g. "/devices/:uuid")
//   - decision: "authorized", "denied", "unauthenticated", or "skipped"
//     (conditional gate with no watched field in the body)
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authorization gate decisions, by route and outcome.",
	},
	[]string{"route", "decision"},
)

// PermissionCacheTotal counts permission-cache lookups.
// Label:
//   - result: "hit", "miss", or "error"
var PermissionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_total",
		Help:      "Total number of permission cache lookups, labelled by result.",
	},
	[]string{"result"},
)
