package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	TransactionsCreated      *prometheus.CounterVec
	PointsCredited           prometheus.Counter
	PointsDebited            prometheus.Counter
	PromotionsConsumed       *prometheus.CounterVec
	EventPointsAwarded       prometheus.Counter
	SuspiciousToggles        *prometheus.CounterVec
	InsufficientPointsTotal  prometheus.Counter
	InsufficientBudgetTotal  prometheus.Counter
	RedemptionsProcessed     prometheus.Counter
	EligibilityFailuresTotal *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionErrors prometheus.Counter

	// System Metrics
	ServiceUptime prometheus.Gauge
	Goroutines    prometheus.Gauge

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pointsgateway_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pointsgateway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_transactions_created_total",
				Help: "Total number of ledger entries created",
			},
			[]string{"type"},
		),
		PointsCredited: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_points_credited_total",
				Help: "Total points credited to account balances",
			},
		),
		PointsDebited: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_points_debited_total",
				Help: "Total points debited from account balances",
			},
		),
		PromotionsConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_promotions_consumed_total",
				Help: "Total promotions applied to purchases",
			},
			[]string{"type"},
		),
		EventPointsAwarded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_event_points_awarded_total",
				Help: "Total points awarded from event budgets",
			},
		),
		SuspiciousToggles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_suspicious_toggles_total",
				Help: "Total suspicious flag changes on ledger entries",
			},
			[]string{"direction"},
		),
		InsufficientPointsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_insufficient_points_total",
				Help: "Total operations rejected for insufficient points",
			},
		),
		InsufficientBudgetTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_insufficient_budget_total",
				Help: "Total event awards rejected for insufficient budget",
			},
		),
		RedemptionsProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_redemptions_processed_total",
				Help: "Total redemptions processed by cashiers",
			},
		),
		EligibilityFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_eligibility_failures_total",
				Help: "Total promotion eligibility failures",
			},
			[]string{"reason"},
		),

		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pointsgateway_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pointsgateway_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pointsgateway_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pointsgateway_db_connection_errors_total",
				Help: "Total number of database connection errors",
			},
		),

		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pointsgateway_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pointsgateway_goroutines",
				Help: "Number of running goroutines",
			},
		),

		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pointsgateway_validation_errors_total",
				Help: "Total number of request validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pointsgateway_validation_duration_seconds",
				Help:    "Duration of request validation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransactionCreated(txType string) {
	m.TransactionsCreated.WithLabelValues(txType).Inc()
}

func (m *Metrics) RecordPointsDelta(amount int64) {
	if amount >= 0 {
		m.PointsCredited.Add(float64(amount))
		return
	}
	m.PointsDebited.Add(float64(-amount))
}

func (m *Metrics) RecordPromotionConsumed(promoType string) {
	m.PromotionsConsumed.WithLabelValues(promoType).Inc()
}

func (m *Metrics) RecordEventPointsAwarded(total int64) {
	m.EventPointsAwarded.Add(float64(total))
}

func (m *Metrics) RecordSuspiciousToggle(direction string) {
	m.SuspiciousToggles.WithLabelValues(direction).Inc()
}

func (m *Metrics) RecordRedemptionProcessed() {
	m.RedemptionsProcessed.Inc()
}

func (m *Metrics) RecordEligibilityFailure(reason string) {
	m.EligibilityFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(endpoint string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) UpdateSystemMetrics(uptime time.Duration) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))
}
