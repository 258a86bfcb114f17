// Package metrics exposes Prometheus collectors for the HTTP API, medication
// actions and the reminder worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediplan"

type Metrics struct {
	registry          *prometheus.Registry
	requestDuration   *prometheus.HistogramVec
	medicationActions *prometheus.CounterVec
	remindersSent     prometheus.Counter
	reminderFailures  prometheus.Counter
	feedSubscribers   prometheus.Gauge
}

// New builds a Metrics instance on its own registry so several instances can
// coexist in tests.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		medicationActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "medications",
				Name:      "actions_total",
				Help:      "Medication mutations by action.",
			},
			[]string{"action"},
		),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Daily reminder digests delivered.",
		}),
		reminderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "failures_total",
			Help:      "Daily reminder digests that could not be delivered.",
		}),
		feedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "subscribers",
			Help:      "Open server-sent event streams.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.medicationActions,
		m.remindersSent,
		m.reminderFailures,
		m.feedSubscribers,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method string, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) MedicationAction(action string) {
	m.medicationActions.WithLabelValues(action).Inc()
}

func (m *Metrics) ReminderSent() {
	m.remindersSent.Inc()
}

func (m *Metrics) ReminderFailed() {
	m.reminderFailures.Inc()
}

func (m *Metrics) StreamOpened() {
	m.feedSubscribers.Inc()
}

func (m *Metrics) StreamClosed() {
	m.feedSubscribers.Dec()
}
