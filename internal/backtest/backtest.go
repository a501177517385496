// Package backtest runs the moving-average crossover strategy over a price series:
// signals are derived, replayed through the position state machine and summarised.
package backtest

import (
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/performance"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// ComputeSignals derives the crossover lines and, when withRSI is set, the RSI of prices
// over the default period. Use indicator.ComputeSignals for other RSI periods.
func ComputeSignals(
	prices types.PriceSeries,
	shortPeriod, longPeriod int,
	kind types.MAKind,
	mode types.EMAMode,
	withRSI bool,
) (types.SignalSeries, error) {
	return indicator.ComputeSignals(prices, types.SignalConfig{
		ShortPeriod: shortPeriod,
		LongPeriod:  longPeriod,
		MAKind:      kind,
		EMAMode:     mode,
		WithRSI:     withRSI,
		RSIPeriod:   types.DefaultRSIPeriod,
	})
}

// Analyze summarises an equity log against the prices it was simulated on.
// See performance.Analyze for how an undefined Sharpe ratio is reported.
func Analyze(equity EquityLog, prices types.PriceSeries) (performance.Report, error) {
	return performance.Analyze(equity, prices.Prices())
}
