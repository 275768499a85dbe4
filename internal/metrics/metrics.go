// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups every collector the service records.
type Metrics struct {
	// HTTP requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// Reservation attempts by outcome (success, conflict, invalid, unauthenticated, error).
	ReservationsTotal *prometheus.CounterVec

	// Dispatcher runs by outcome (ok, error).
	DispatchRunsTotal *prometheus.CounterVec

	// Subscription lifecycle events (subscribed, resolved, expired, cancelled).
	NotificationsTotal *prometheus.CounterVec

	// Subscriptions currently waiting, sampled by the sweeper.
	PendingSubscriptions prometheus.Gauge

	// Tasks offered to the worker pool by outcome (accepted, rejected, panicked).
	WorkerTasksTotal *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation attempts",
			},
			[]string{"status"},
		),
		DispatchRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_dispatch_runs_total",
				Help: "Total number of notification dispatcher runs",
			},
			[]string{"outcome"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_events_total",
				Help: "Total number of subscription lifecycle events",
			},
			[]string{"outcome"},
		),
		PendingSubscriptions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "subscriptions_pending",
				Help: "Current number of pending subscriptions",
			},
		),
		WorkerTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_tasks_total",
				Help: "Total number of tasks offered to the worker pool",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.DispatchRunsTotal,
		m.NotificationsTotal,
		m.PendingSubscriptions,
		m.WorkerTasksTotal,
	)
	return m
}

// Nop returns collectors registered on a private registry. Components use
// it when they are built without metrics.
func Nop() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}
