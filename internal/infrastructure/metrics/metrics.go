package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersTotal   *prometheus.CounterVec
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram
	TransferErrors   *prometheus.CounterVec

	// Risk metrics
	RiskScore       prometheus.Histogram
	RiskAssessments *prometheus.CounterVec
	AlertsCreated   *prometheus.CounterVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Event metrics
	EventsPublished *prometheus.CounterVec
	EventErrors     prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransfersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_transfers_total",
				Help: "Total transfer requests by gating decision",
			},
			[]string{"decision"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tappay_transfer_duration_seconds",
			Help:    "Duration of transfer operations including risk scoring",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tappay_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_transfer_errors_total",
				Help: "Total transfer errors by type",
			},
			[]string{"error_type"},
		),

		RiskScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tappay_risk_score",
			Help:    "Aggregate risk scores of scored transfers",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
		}),
		RiskAssessments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_risk_assessments_total",
				Help: "Total risk assessments by resulting level",
			},
			[]string{"level"},
		),
		AlertsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_fraud_alerts_total",
				Help: "Total fraud alerts created by level",
			},
			[]string{"level"},
		),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tappay_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tappay_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tappay_events_published_total",
				Help: "Total events published by kind",
			},
			[]string{"kind"},
		),
		EventErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tappay_event_errors_total",
			Help: "Total dropped event publishes",
		}),
	}
}

// RecordTransfer records one transfer request outcome.
func (m *Metrics) RecordTransfer(decision string, amount float64, seconds float64) {
	m.TransfersTotal.WithLabelValues(decision).Inc()
	m.TransferAmount.Observe(amount)
	m.TransferDuration.Observe(seconds)
}

// RecordAssessment records a risk assessment outcome.
func (m *Metrics) RecordAssessment(score float64, level string) {
	m.RiskScore.Observe(score)
	m.RiskAssessments.WithLabelValues(level).Inc()
}

// RecordTransferError records a failed transfer by error type.
func (m *Metrics) RecordTransferError(errType string) {
	m.TransferErrors.WithLabelValues(errType).Inc()
}

// RecordAlert records a persisted fraud alert.
func (m *Metrics) RecordAlert(level string) {
	m.AlertsCreated.WithLabelValues(level).Inc()
}

// RecordAccountCreated records an account creation.
func (m *Metrics) RecordAccountCreated() {
	m.AccountsCreated.Inc()
}
