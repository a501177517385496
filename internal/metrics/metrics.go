// Package metrics exposes Prometheus metrics of backtest runs. Backtests are batch
// jobs, so the registry is exported to a node-exporter textfile instead of served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics holds the Prometheus collectors of the backtest engine.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec // labels: status
	TradesTotal      prometheus.Counter
	ProfitPercentage prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Total backtest runs by outcome",
		}, []string{"status"}),
		TradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_trades_total",
			Help: "Total completed round-trip trades",
		}),
		ProfitPercentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backtest_profit_percentage",
			Help:    "Realised profit of a run in percent",
			Buckets: []float64{-50, -25, -10, -5, 0, 5, 10, 25, 50, 100, 200},
		}),
	}

	m.registry.MustRegister(m.RunsTotal, m.TradesTotal, m.ProfitPercentage)

	return m
}

// ObserveRun records a successful run.
func (m *Metrics) ObserveRun(trades int, profitPercentage float64) {
	m.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	m.TradesTotal.Add(float64(trades))
	m.ProfitPercentage.Observe(profitPercentage)
}

// ObserveFailure records a run that returned an error.
func (m *Metrics) ObserveFailure() {
	m.RunsTotal.WithLabelValues(StatusFailed).Inc()
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format.
// The file is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
