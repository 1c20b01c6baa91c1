// Package metrics exposes the ordering engine counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ordering"

// EngineMetrics implements ports.Metrics.
type EngineMetrics struct {
	ordersCreated        *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	autoDeliveryRuns     *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	httpLatency          *prometheus.HistogramVec
}

// NewEngineMetrics registers every collector with reg.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created, by payment method.",
		}, []string{"payment_method"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Applied order status transitions, by target status.",
		}, []string{"status"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Messages that could not be sent and went to the outbox, by kind.",
		}, []string{"kind"}),
		autoDeliveryRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_delivery_runs_total",
			Help:      "Auto-delivery checks, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.ordersCreated,
		m.statusTransitions,
		m.notificationFailures,
		m.autoDeliveryRuns,
		m.httpRequests,
		m.httpLatency,
	)
	return m
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics of g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *EngineMetrics) OrderCreated(paymentMethod string) {
	m.ordersCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *EngineMetrics) StatusTransition(to string) {
	m.statusTransitions.WithLabelValues(to).Inc()
}

func (m *EngineMetrics) NotificationFailed(kind string) {
	m.notificationFailures.WithLabelValues(kind).Inc()
}

func (m *EngineMetrics) AutoDeliveryRun(outcome string) {
	m.autoDeliveryRuns.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *EngineMetrics) ObserveRequest(route, status string, seconds float64) {
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.httpLatency.WithLabelValues(route).Observe(seconds)
}
