// Package metrics exposes Prometheus collectors for the production engine
// and the purchase proxy.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staxe"

var (
	engineOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "operations_total",
		Help:      "Count of production engine operations.",
	}, []string{"operation", "network", "status"})
	engineOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "operation_duration_seconds",
		Help:      "Duration of production engine operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
	engineRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "rejections_total",
		Help:      "Count of rejected engine operations by error class.",
	}, []string{"operation", "network", "kind"})
	engineProductions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "productions",
		Help:      "Number of productions per lifecycle state.",
	}, []string{"network", "state"})
)

// Engine tracks metrics for production engine operations.
type Engine struct {
	network string
}

// NewEngine constructs a metrics collector for the engine.
func NewEngine(network string) *Engine {
	if network == "" {
		network = "unknown"
	}
	return &Engine{network: network}
}

// Observe records a single operation outcome and duration.
func (m *Engine) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	engineOperationsTotal.WithLabelValues(operation, m.network, status).Inc()
	engineOperationDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}

// ObserveRejection counts a rejected operation under its error class.
func (m *Engine) ObserveRejection(operation, kind string) {
	engineRejectionsTotal.WithLabelValues(operation, m.network, kind).Inc()
}

// SetProductions records how many productions are in state.
func (m *Engine) SetProductions(state string, n int) {
	engineProductions.WithLabelValues(m.network, state).Set(float64(n))
}
