package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics engine instrumentation. Register once from cmd.
type Metrics struct {
	Operations   *prometheus.CounterVec
	Liquidations prometheus.Counter
	AccrualIndex prometheus.Gauge
}

// New registers the collectors against the default registry.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pledge",
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Mutating engine operations by operation and status.",
		}, []string{"operation", "status"}),
		Liquidations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pledge",
			Subsystem: "engine",
			Name:      "liquidations_total",
			Help:      "Successful liquidations.",
		}),
		AccrualIndex: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pledge",
			Subsystem: "engine",
			Name:      "accrual_index",
			Help:      "Current global accrual index.",
		}),
	}
}
