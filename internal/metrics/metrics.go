package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the service's Prometheus collectors behind one handler.
type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced       prometheus.Counter
	OrdersRejected     prometheus.Counter
	OrderLatencySec    prometheus.Histogram
	LowStockAlertCount prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "bistro_orders_placed_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "bistro_orders_rejected_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bistro_order_placement_seconds",
		Buckets: prometheus.DefBuckets,
	})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{Name: "bistro_low_stock_alerts"})

	r.MustRegister(placed, rejected, latency, lowStock)
	return &Registry{
		reg:                r,
		OrdersPlaced:       placed,
		OrdersRejected:     rejected,
		OrderLatencySec:    latency,
		LowStockAlertCount: lowStock,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
