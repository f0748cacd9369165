// Package metrics exposes Prometheus instrumentation for the client SDK.
// Counters register against the default registry; host processes that want
// to scrape them serve promhttp themselves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts API calls by operation and outcome ("success" or "error").
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "packet",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "API requests issued by the client, by operation and outcome.",
	}, []string{"operation", "outcome"})

	// TokenRefreshes counts refresh-token exchanges by outcome.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "packet",
		Subsystem: "client",
		Name:      "token_refreshes_total",
		Help:      "Access token refresh attempts, by outcome.",
	}, []string{"outcome"})

	// ChatMessages counts chat frames by direction ("in" or "out").
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "packet",
		Subsystem: "client",
		Name:      "chat_messages_total",
		Help:      "Chat messages exchanged over the live stream, by direction.",
	}, []string{"direction"})
)
