package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_connections_active",
			Help: "Number of currently joined whiteboard connections",
		},
	)

	SessionConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_connections_total",
			Help: "Total number of whiteboard connections ever joined",
		},
	)

	SessionBoardsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_boards_active",
			Help: "Number of boards with at least one joined connection",
		},
	)

	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_total",
			Help: "Total number of routed whiteboard events by type",
		},
		[]string{"type"},
	)

	SessionEventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_dropped_total",
			Help: "Total number of dropped inbound events by reason",
		},
		[]string{"reason"},
	)

	SessionBroadcastFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_broadcast_failures_total",
			Help: "Total number of per-recipient broadcast delivery failures",
		},
	)

	SessionAuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_auth_failures_total",
			Help: "Total number of websocket handshake auth failures by reason",
		},
		[]string{"reason"},
	)
)
