package metrics

import "github.com/prometheus/client_golang/prometheus"

// ActivityMetrics counts the mutations that produce live events.
type ActivityMetrics struct {
	MessagesSent  prometheus.Counter
	LikesToggled  *prometheus.CounterVec
	CommentsAdded prometheus.Counter
}

// NewActivityMetrics creates and registers activity metrics on the given registry.
func NewActivityMetrics(reg prometheus.Registerer) *ActivityMetrics {
	m := &ActivityMetrics{
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Total number of direct messages sent.",
		}),
		LikesToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_toggled_total",
			Help:      "Total number of like toggles, by result.",
		}, []string{"result"}),
		CommentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_added_total",
			Help:      "Total number of comments added.",
		}),
	}

	reg.MustRegister(m.MessagesSent, m.LikesToggled, m.CommentsAdded)
	return m
}
