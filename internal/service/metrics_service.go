package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the Prometheus collectors for the API.
type MetricsService struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	BookingsCreated  prometheus.Counter
	BookingConflicts prometheus.Counter
	ExportsQueued    prometheus.Counter
}

// NewMetricsService registers the collectors on the given registry.
func NewMetricsService(reg prometheus.Registerer) *MetricsService {
	m := &MetricsService{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings successfully committed.",
		}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Booking attempts rejected by the seat uniqueness constraint.",
		}),
		ExportsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "manifest_exports_queued_total",
			Help: "Manifest export jobs accepted for processing.",
		}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.BookingsCreated, m.BookingConflicts, m.ExportsQueued)
	return m
}
