package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	eventsRoute    = "/events"
	unmatchedRoute = "unmatched"
)

// HTTPMetrics tracks JSON API requests and /events stream outcomes
// separately. Stream durations are connection lifetimes, which would swamp
// a request latency histogram.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
	StreamRequests  *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests by route template.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route template and final status.",
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "API requests currently being served, streams excluded.",
		}),
		StreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "event_stream_requests_total",
			Help:      "Finished /events requests by status; 200 means the stream ran.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge, m.StreamRequests)
	return m
}

// Middleware records request metrics. /metrics and /health are not counted.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			switch {
			case route == "/metrics" || strings.HasPrefix(route, "/health"):
				return next(c)
			case route == eventsRoute:
				err := next(c)
				m.StreamRequests.WithLabelValues(statusLabel(c, err)).Inc()
				return err
			case route == "":
				route = unmatchedRoute
			}

			m.InFlightGauge.Inc()
			start := time.Now()
			err := next(c)
			m.InFlightGauge.Dec()

			method, status := c.Request().Method, statusLabel(c, err)
			m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
			m.RequestsTotal.WithLabelValues(method, route, status).Inc()
			return err
		}
	}
}

// statusLabel reports the status the client will see. Errors returned here
// are rendered further out in the chain, so the response still reads 200.
func statusLabel(c echo.Context, err error) string {
	if err == nil || c.Response().Committed {
		return strconv.Itoa(c.Response().Status)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return strconv.Itoa(httpErr.Code)
	}
	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.HTTPStatus())
	}
	return strconv.Itoa(http.StatusInternalServerError)
}
