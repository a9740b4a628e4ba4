package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	ApplicationsReceived prometheus.Counter
	StatusChanges        *prometheus.CounterVec
	AppointmentsBooked   prometheus.Counter
	ExportsCreated       *prometheus.CounterVec
	EmailsSent           *prometheus.CounterVec
	CRMSyncs             *prometheus.CounterVec
	LeadsByStatus        *prometheus.GaugeVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates a Metrics instance registered on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
			},
			[]string{"method", "path"},
		),

		ApplicationsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "applications_received_total",
			Help: "Total number of loan applications submitted",
		}),
		StatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_status_changes_total",
				Help: "Total number of lead status changes",
			},
			[]string{"status"},
		),
		AppointmentsBooked: factory.NewCounter(prometheus.CounterOpts{
			Name: "appointments_booked_total",
			Help: "Total number of appointments booked",
		}),
		ExportsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_created_total",
				Help: "Total number of exports created",
			},
			[]string{"format"}, // csv, xlsx, json
		),
		EmailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emails_sent_total",
				Help: "Total number of lead emails attempted",
			},
			[]string{"template", "result"},
		),
		CRMSyncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_syncs_total",
				Help: "Total number of CRM sync attempts",
			},
			[]string{"result"},
		),
		LeadsByStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "leads_by_status",
				Help: "Number of leads per pipeline status",
			},
			[]string{"status"},
		),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		}),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			req := c.Request()

			err := next(c)

			// route pattern, not the raw path
			path := c.Path()
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			code := strconv.Itoa(status)

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, code).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, code).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// RecordApplication increments the applications counter
func (m *Metrics) RecordApplication() {
	if m == nil {
		return
	}
	m.ApplicationsReceived.Inc()
}

// RecordStatusChange counts a status write
func (m *Metrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

// RecordAppointment increments the bookings counter
func (m *Metrics) RecordAppointment() {
	if m == nil {
		return
	}
	m.AppointmentsBooked.Inc()
}

// RecordExportCreated counts an export by format
func (m *Metrics) RecordExportCreated(format string) {
	if m == nil {
		return
	}
	m.ExportsCreated.WithLabelValues(format).Inc()
}

// RecordEmail counts an email attempt
func (m *Metrics) RecordEmail(template string, sent bool) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(template, result(sent)).Inc()
}

// RecordCRMSync counts a CRM sync attempt
func (m *Metrics) RecordCRMSync(success bool) {
	if m == nil {
		return
	}
	m.CRMSyncs.WithLabelValues(result(success)).Inc()
}

// SetLeadsByStatus replaces the per-status gauges
func (m *Metrics) SetLeadsByStatus(counts map[string]int) {
	if m == nil {
		return
	}
	m.LeadsByStatus.Reset()
	for status, n := range counts {
		m.LeadsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// UpdateDBConnections updates active database connections gauge
func (m *Metrics) UpdateDBConnections(count float64) {
	if m == nil {
		return
	}
	m.DBConnections.Set(count)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}
