// Package metrics defines and registers the custom Prometheus metrics of the
// shop API. It is the single source of truth for metric names, labels, and
// help strings. HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "heladeria"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - channel: "session" or "token"
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// TokensDecodedTotal counts access token verifications.
// Label:
//   - result: "ok", "expired" or "invalid"
var TokensDecodedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_decoded_total",
		Help:      "Total number of access tokens verified, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts guard decisions on protected routes.
// Labels:
//   - result: "allow", "unauthenticated" or "forbidden"
//   - source: "session", "token" or "none"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization decisions, by result and identity source.",
	},
	[]string{"result", "source"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// SalesTotal counts products sold.
var SalesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_total",
		Help:      "Total number of products sold.",
	},
)

// RestockedUnitsTotal counts units added to stock.
// Label:
//   - kind: "product" or "ingredient"
var RestockedUnitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "restocked_units_total",
		Help:      "Total number of inventory units added by restocking.",
	},
	[]string{"kind"},
)
