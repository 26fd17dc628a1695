// Package metrics exposes the process's Prometheus collectors, per
// SPEC_FULL.md §12's supplemented /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TickDuration measures wall-clock time spent in one Simulation.Tick call.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pongrelay_tick_duration_seconds",
		Help:    "Time spent advancing one physics tick",
		Buckets: prometheus.DefBuckets,
	})

	// ActiveSessions tracks the number of non-Closed sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pongrelay_active_sessions",
		Help: "Number of sessions that are Pending or Running",
	})

	// BridgeFramesTotal counts websocket frames the bridge has sent or
	// received, labeled by direction ("ingress"/"egress") and role.
	BridgeFramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pongrelay_bridge_frames_total",
		Help: "Total websocket frames processed by the bridge",
	}, []string{"direction", "role"})

	// SessionEventsTotal counts Session events emitted, labeled by type.
	SessionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pongrelay_session_events_total",
		Help: "Total Session lifecycle events emitted to the log",
	}, []string{"event_type"})

	// BrokerTransportFailuresTotal counts TransportFailure occurrences,
	// labeled by operation.
	BrokerTransportFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pongrelay_broker_transport_failures_total",
		Help: "Total broker transport failures, by operation",
	}, []string{"op"})
)
