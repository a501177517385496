package types

import (
	"math"
	"time"
)

// MAKind selects the moving average used for both crossover lines.
type MAKind string

const (
	// MAKindSimple is the unweighted mean over a trailing window.
	MAKindSimple MAKind = "sma"
	// MAKindExponential is the recursively weighted exponential moving average.
	MAKindExponential MAKind = "ema"
)

// EMAMode selects how the exponential moving average treats the start of the series.
type EMAMode string

const (
	// EMAModeAdjusted divides by the sum of the decaying weights, so early values are
	// a weighted partial average without seeding bias.
	EMAModeAdjusted EMAMode = "adjusted"
	// EMAModeUnadjusted seeds ema[0] with the first price and applies the recursion from bar 1.
	EMAModeUnadjusted EMAMode = "unadjusted"
)

// DefaultRSIPeriod is the lookback of the momentum filter.
const DefaultRSIPeriod = 14

// SignalConfig describes which derived series to compute.
type SignalConfig struct {
	ShortPeriod int
	LongPeriod  int
	MAKind      MAKind
	// EMAMode is only consulted when MAKind is MAKindExponential.
	EMAMode EMAMode
	WithRSI bool
	// RSIPeriod defaults to DefaultRSIPeriod when zero.
	RSIPeriod int
}

// SignalBar is a price bar with its derived values. Undefined values are NaN.
type SignalBar struct {
	Time    time.Time `yaml:"time" json:"time"`
	Price   float64   `yaml:"price" json:"price"`
	ShortMA float64   `yaml:"short_ma" json:"short_ma"`
	LongMA  float64   `yaml:"long_ma" json:"long_ma"`
	RSI     float64   `yaml:"rsi" json:"rsi"`
}

// Defined reports whether every value the simulation reads is defined.
func (b SignalBar) Defined(withRSI bool) bool {
	if math.IsNaN(b.ShortMA) || math.IsNaN(b.LongMA) {
		return false
	}

	return !withRSI || !math.IsNaN(b.RSI)
}

// SignalSeries holds one SignalBar per input bar, aligned with the price series.
type SignalSeries struct {
	symbol string
	config SignalConfig
	bars   []SignalBar
	warmUp int
}

// NewSignalSeries wraps computed bars. The warm-up prefix is measured here.
func NewSignalSeries(symbol string, config SignalConfig, bars []SignalBar) SignalSeries {
	warmUp := 0
	for warmUp < len(bars) && !bars[warmUp].Defined(config.WithRSI) {
		warmUp++
	}

	return SignalSeries{
		symbol: symbol,
		config: config,
		bars:   bars,
		warmUp: warmUp,
	}
}

// Symbol returns the instrument symbol.
func (s SignalSeries) Symbol() string {
	return s.symbol
}

// Config returns the configuration the series was computed with.
func (s SignalSeries) Config() SignalConfig {
	return s.config
}

// HasRSI reports whether the RSI column was computed.
func (s SignalSeries) HasRSI() bool {
	return s.config.WithRSI
}

// Len returns the number of bars, warm-up included.
func (s SignalSeries) Len() int {
	return len(s.bars)
}

// Bars returns a copy of every bar, warm-up included.
func (s SignalSeries) Bars() []SignalBar {
	copied := make([]SignalBar, len(s.bars))
	copy(copied, s.bars)

	return copied
}

// WarmUp returns the length of the leading prefix with undefined values.
func (s SignalSeries) WarmUp() int {
	return s.warmUp
}

// Tradable returns the bars after the warm-up prefix.
func (s SignalSeries) Tradable() []SignalBar {
	copied := make([]SignalBar, len(s.bars)-s.warmUp)
	copy(copied, s.bars[s.warmUp:])

	return copied
}
