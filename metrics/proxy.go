package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proxyPurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "purchase_proxy",
		Name:      "purchases_total",
		Help:      "Count of purchase attempts made through the proxy.",
	}, []string{"network", "mode", "status"})
	proxyPurchaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "purchase_proxy",
		Name:      "purchase_duration_seconds",
		Help:      "Duration of purchases made through the proxy.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "mode", "status"})
	proxyPendingOrders = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "purchase_proxy",
		Name:      "pending_orders",
		Help:      "Number of placed purchases waiting for deposits.",
	}, []string{"network"})
)

// Proxy tracks metrics for the purchase proxy.
type Proxy struct {
	network string
}

// NewProxy constructs a metrics collector for the purchase proxy.
func NewProxy(network string) *Proxy {
	if network == "" {
		network = "unknown"
	}
	return &Proxy{network: network}
}

// ObservePurchase records a purchase attempt. mode is "immediate" or "pending".
func (m *Proxy) ObservePurchase(mode string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	proxyPurchasesTotal.WithLabelValues(m.network, mode, status).Inc()
	proxyPurchaseDuration.WithLabelValues(m.network, mode, status).Observe(time.Since(started).Seconds())
}

// SetPending records the number of pending orders.
func (m *Proxy) SetPending(n int) {
	proxyPendingOrders.WithLabelValues(m.network).Set(float64(n))
}
