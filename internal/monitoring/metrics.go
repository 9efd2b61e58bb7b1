package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Protection metrics
	locksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protection_bot_locks_total",
			Help: "Total number of entry locks engaged",
		},
		[]string{"protection", "side", "scope"},
	)

	activeLocks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "protection_bot_active_locks",
			Help: "Number of currently active entry locks",
		},
	)

	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protection_bot_evaluations_total",
			Help: "Total number of protection evaluations",
		},
		[]string{"protection"},
	)

	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protection_bot_trades_total",
			Help: "Total number of trade records ingested",
		},
		[]string{"pair"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protection_bot_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(locksTotal)
	prometheus.MustRegister(activeLocks)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordLock records an engaged entry lock
func RecordLock(protection, side, scope string) {
	locksTotal.WithLabelValues(protection, side, scope).Inc()
}

// SetActiveLocks updates the active lock gauge
func SetActiveLocks(count int) {
	activeLocks.Set(float64(count))
}

// RecordEvaluation records one protection evaluation
func RecordEvaluation(protection string) {
	evaluationsTotal.WithLabelValues(protection).Inc()
}

// RecordTrade records an ingested trade record
func RecordTrade(pair string) {
	tradesTotal.WithLabelValues(pair).Inc()
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
