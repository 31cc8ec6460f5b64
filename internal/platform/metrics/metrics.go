package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the media tracker.
type Metrics struct {
	registry             *prometheus.Registry
	requestsTotal        prometheus.Counter
	errorsTotal          prometheus.Counter
	eventsTotal          *prometheus.CounterVec
	pageEventsTotal      prometheus.Counter
	sinkErrorsTotal      prometheus.Counter
	sessionsCreatedTotal prometheus.Counter
	trackedSessions      prometheus.Gauge
}

// New creates and registers Prometheus metrics for the tracker.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_events_total",
		Help: "Total number of media events delivered to the sink, by event name",
	}, []string{"event"})
	pageEventsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_page_events_total",
		Help: "Total number of page events delivered to the sink",
	})
	sinkErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_sink_errors_total",
		Help: "Total number of failed sink deliveries",
	})
	sessionsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_sessions_created_total",
		Help: "Total number of tracked media sessions created",
	})
	trackedSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "media_tracked_sessions",
		Help: "Number of media sessions currently tracked",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		eventsTotal,
		pageEventsTotal,
		sinkErrorsTotal,
		sessionsCreatedTotal,
		trackedSessions,
	)

	return &Metrics{
		registry:             registry,
		requestsTotal:        requestsTotal,
		errorsTotal:          errorsTotal,
		eventsTotal:          eventsTotal,
		pageEventsTotal:      pageEventsTotal,
		sinkErrorsTotal:      sinkErrorsTotal,
		sessionsCreatedTotal: sessionsCreatedTotal,
		trackedSessions:      trackedSessions,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncEvents increments the delivered media event counter for name.
func (m *Metrics) IncEvents(name string) {
	m.eventsTotal.WithLabelValues(name).Inc()
}

// IncPageEvents increments the delivered page event counter.
func (m *Metrics) IncPageEvents() {
	m.pageEventsTotal.Inc()
}

// IncSinkErrors increments the failed delivery counter.
func (m *Metrics) IncSinkErrors() {
	m.sinkErrorsTotal.Inc()
}

// IncSessionsCreated increments the created sessions counter.
func (m *Metrics) IncSessionsCreated() {
	m.sessionsCreatedTotal.Inc()
}

// SetTrackedSessions sets the tracked sessions gauge.
func (m *Metrics) SetTrackedSessions(n int) {
	m.trackedSessions.Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. tracked sessions).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
