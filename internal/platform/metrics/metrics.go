package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	identifiersAllocated *prometheus.CounterVec
	identifierRetries    *prometheus.CounterVec
	loginFailures        prometheus.Counter
	lockouts             prometheus.Counter
	refreshRejected      *prometheus.CounterVec
	remindersSent        prometheus.Counter
	remindersFailed      prometheus.Counter
}

// New creates the collectors and registers them on a private registry together with the
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		identifiersAllocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bfa_identifiers_allocated_total",
			Help: "Receipt, voucher and entity codes handed out.",
		}, []string{"kind"}),
		identifierRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bfa_identifier_retries_total",
			Help: "Units of work retried after a duplicate identifier.",
		}, []string{"kind"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bfa_login_failures_total",
			Help: "Failed password checks.",
		}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bfa_account_lockouts_total",
			Help: "Actors locked after too many failed logins.",
		}),
		refreshRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bfa_refresh_rejected_total",
			Help: "Refresh credentials rejected, by reason.",
		}, []string{"reason"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bfa_reminders_sent_total",
			Help: "Reminder emails delivered.",
		}),
		remindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bfa_reminders_failed_total",
			Help: "Reminder emails that failed and were skipped.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.identifiersAllocated, m.identifierRetries, m.loginFailures, m.lockouts,
		m.refreshRejected, m.remindersSent, m.remindersFailed,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted marks an HTTP request as in flight.
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

// RequestFinished records a completed HTTP request.
func (m *Metrics) RequestFinished(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// IdentifierAllocated counts a handed out identifier of kind.
func (m *Metrics) IdentifierAllocated(kind string) {
	if m == nil {
		return
	}
	m.identifiersAllocated.WithLabelValues(kind).Inc()
}

// IdentifierRetried counts a unit of work retried after a duplicate identifier.
func (m *Metrics) IdentifierRetried(kind string) {
	if m == nil {
		return
	}
	m.identifierRetries.WithLabelValues(kind).Inc()
}

// LoginFailed counts a failed password check; locked reports whether it locked the account.
func (m *Metrics) LoginFailed(locked bool) {
	if m == nil {
		return
	}
	m.loginFailures.Inc()
	if locked {
		m.lockouts.Inc()
	}
}

// RefreshRejected counts a rejected refresh credential.
func (m *Metrics) RefreshRejected(reason string) {
	if m == nil {
		return
	}
	m.refreshRejected.WithLabelValues(reason).Inc()
}

// ReminderSent counts a delivered reminder.
func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

// ReminderFailed counts a reminder that could not be delivered.
func (m *Metrics) ReminderFailed() {
	if m == nil {
		return
	}
	m.remindersFailed.Inc()
}
