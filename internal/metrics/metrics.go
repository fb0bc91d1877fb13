// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gatekeeper"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts",
		},
		[]string{"result"},
	)

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of credential checks",
		},
		[]string{"result"},
	)

	Sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of sessions created and destroyed",
		},
		[]string{"event"},
	)

	ResetTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reset_tokens_total",
			Help:      "Total number of password reset tokens issued and consumed",
		},
		[]string{"event"},
	)
)

// Register registers every collector of the package with reg.
// Panics if registration fails.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequests,
		HTTPRequestDuration,
		Registrations,
		LoginAttempts,
		Sessions,
		ResetTokens,
	)
}

// Handler exposes the collectors of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordRegistration(ok bool) {
	Registrations.WithLabelValues(result(ok)).Inc()
}

func RecordLogin(ok bool) {
	LoginAttempts.WithLabelValues(result(ok)).Inc()
}

func RecordSessionCreated() {
	Sessions.WithLabelValues("created").Inc()
}

func RecordSessionDestroyed() {
	Sessions.WithLabelValues("destroyed").Inc()
}

func RecordResetTokenIssued() {
	ResetTokens.WithLabelValues("issued").Inc()
}

func RecordResetTokenConsumed() {
	ResetTokens.WithLabelValues("consumed").Inc()
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}
