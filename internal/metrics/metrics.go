// Package metrics owns the Prometheus registry exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "undangan",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "undangan",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "undangan",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
	}, []string{"method", "route"})

	invitationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "undangan",
		Name:      "invitations_created_total",
		Help:      "Invitations created together with their default rows.",
	})

	uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "undangan",
		Name:      "uploads_total",
		Help:      "File uploads by kind and result.",
	}, []string{"kind", "result"})

	authFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "undangan",
		Name:      "authorization_denied_total",
		Help:      "Requests denied by the ownership policy, by reason.",
	}, []string{"reason"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		invitationsCreated,
		uploads,
		authFailures,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InFlight increments the in-flight gauge and returns the matching decrement.
func InFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveRequest records one finished request.  route is the route pattern,
// never the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func InvitationCreated() { invitationsCreated.Inc() }

// Upload records a file intake outcome, e.g. ("story", "ok").
func Upload(kind, result string) { uploads.WithLabelValues(kind, result).Inc() }

// Denied records an authorization failure reason.
func Denied(reason string) { authFailures.WithLabelValues(reason).Inc() }
