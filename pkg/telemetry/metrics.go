package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the console.
type Metrics struct {
	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	draftRuns       *prometheus.CounterVec
	draftItems      *prometheus.HistogramVec
	invoicesCreated *prometheus.CounterVec
	batchFailures   *prometheus.CounterVec
	invoiceAmount   *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
}

// NewMetrics registers and returns Prometheus metrics for telemetry.
func NewMetrics() *Metrics {
	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_api_requests_total",
		Help: "Counts API requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutordesk_api_duration_seconds",
		Help:    "API request latency per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	draftRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_billing_draft_runs_total",
		Help: "Counts draft-generation runs by billing mode and outcome.",
	}, []string{"mode", "outcome"})

	draftItems := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutordesk_billing_draft_items",
		Help:    "Billable items considered per draft run.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"mode"})

	invoicesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_invoices_created_total",
		Help: "Counts invoices created by billing mode.",
	}, []string{"mode"})

	batchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_invoice_batch_failures_total",
		Help: "Counts per-family invoice creation failures by billing mode.",
	}, []string{"mode"})

	invoiceAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tutordesk_invoice_amount_cents",
		Help:    "Created invoice totals in minor currency units.",
		Buckets: []float64{1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000},
	}, []string{"mode"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tutordesk_notifications_total",
		Help: "Counts outbound notifications by kind and status.",
	}, []string{"kind", "status"})

	prometheus.MustRegister(
		apiRequests,
		apiDuration,
		draftRuns,
		draftItems,
		invoicesCreated,
		batchFailures,
		invoiceAmount,
		notifications,
	)

	return &Metrics{
		apiRequests:     apiRequests,
		apiDuration:     apiDuration,
		draftRuns:       draftRuns,
		draftItems:      draftItems,
		invoicesCreated: invoicesCreated,
		batchFailures:   batchFailures,
		invoiceAmount:   invoiceAmount,
		notifications:   notifications,
	}
}

// ObserveAPIRequest records one API request with its latency.
func (m *Metrics) ObserveAPIRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDraftRun records one draft-generation run.
func (m *Metrics) ObserveDraftRun(mode, outcome string, items int) {
	if m == nil {
		return
	}
	m.draftRuns.WithLabelValues(mode, outcome).Inc()
	m.draftItems.WithLabelValues(mode).Observe(float64(items))
}

// ObserveInvoiceCreated records a created invoice and its total.
func (m *Metrics) ObserveInvoiceCreated(mode string, totalCents int64) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(mode).Inc()
	m.invoiceAmount.WithLabelValues(mode).Observe(float64(totalCents))
}

// ObserveBatchFailure records a per-family creation failure.
func (m *Metrics) ObserveBatchFailure(mode string) {
	if m == nil {
		return
	}
	m.batchFailures.WithLabelValues(mode).Inc()
}

// ObserveNotification records a notification attempt.
func (m *Metrics) ObserveNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, status).Inc()
}
