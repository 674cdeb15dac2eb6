package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on a private registry so several
// instances (one per test router) never collide.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	BookingsCreated   prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	StatusChanges     *prometheus.CounterVec
	LoginAttempts     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "servicebooking_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "servicebooking_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "servicebooking_bookings_created_total",
			Help: "Total number of bookings placed",
		}),

		PaymentsConfirmed: f.NewCounter(prometheus.CounterOpts{
			Name: "servicebooking_payments_confirmed_total",
			Help: "Total number of simulated payments confirmed",
		}),

		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "servicebooking_booking_status_changes_total",
			Help: "Booking status transitions by target status",
		}, []string{"status"}),

		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "servicebooking_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
