package metrics

import "github.com/prometheus/client_golang/prometheus"

// Eviction reasons for SSEMetrics.Evictions.
const (
	EvictClosed = "closed"
	EvictSlow   = "slow"
	EvictError  = "error"
)

// SSEMetrics holds Prometheus metrics for the server-sent events hub.
type SSEMetrics struct {
	ActiveConnections   prometheus.Gauge
	EventsBroadcast     *prometheus.CounterVec
	FramesDelivered     prometheus.Counter
	Evictions           *prometheus.CounterVec
	RejectedConnections prometheus.Counter
}

// NewSSEMetrics creates and registers SSE metrics on the given registry.
func NewSSEMetrics(reg prometheus.Registerer) *SSEMetrics {
	m := &SSEMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "active_connections",
			Help:      "Number of open SSE connections.",
		}),
		EventsBroadcast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "events_broadcast_total",
			Help:      "Total number of events fanned out, by event name.",
		}, []string{"event"}),
		FramesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "frames_delivered_total",
			Help:      "Total number of event frames queued to subscribers.",
		}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "evictions_total",
			Help:      "Total number of subscribers dropped during broadcast, by reason.",
		}, []string{"reason"}),
		RejectedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "rejected_connections_total",
			Help:      "Total number of SSE connections refused at capacity or during shutdown.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.EventsBroadcast, m.FramesDelivered, m.Evictions, m.RejectedConnections)
	return m
}
