package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// PriceBar is a single observation of the instrument's price.
type PriceBar struct {
	Time  time.Time `csv:"time" yaml:"time" json:"time"`
	Price float64   `csv:"price" yaml:"price" json:"price"`
}

// IsMissing reports whether the bar carries no price.
func (b PriceBar) IsMissing() bool {
	return math.IsNaN(b.Price)
}

// PriceSeries is an immutable, strictly time-ordered sequence of bars for one symbol.
// Build it with NewPriceSeries; the zero value is an empty series.
type PriceSeries struct {
	symbol string
	bars   []PriceBar
}

// NewPriceSeries validates and copies bars into a new series.
// Timestamps must be strictly increasing and every price must be positive or NaN (missing).
func NewPriceSeries(symbol string, bars []PriceBar) (PriceSeries, error) {
	for i, bar := range bars {
		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return PriceSeries{}, errors.Newf(errors.ErrCodeInvalidPriceSeries,
				"timestamps must be strictly increasing: bar %d at %s is not after %s",
				i, bar.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}

		if bar.IsMissing() {
			continue
		}

		if math.IsInf(bar.Price, 0) || bar.Price <= 0 {
			return PriceSeries{}, errors.Newf(errors.ErrCodeInvalidPriceSeries,
				"price must be positive, got %v at bar %d", bar.Price, i)
		}
	}

	copied := make([]PriceBar, len(bars))
	copy(copied, bars)

	return PriceSeries{symbol: symbol, bars: copied}, nil
}

// Symbol returns the instrument symbol.
func (s PriceSeries) Symbol() string {
	return s.symbol
}

// Len returns the number of bars.
func (s PriceSeries) Len() int {
	return len(s.bars)
}

// At returns the i-th bar.
func (s PriceSeries) At(i int) PriceBar {
	return s.bars[i]
}

// Bars returns a copy of the bars.
func (s PriceSeries) Bars() []PriceBar {
	copied := make([]PriceBar, len(s.bars))
	copy(copied, s.bars)

	return copied
}

// Prices returns the price column.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.bars))
	for i, bar := range s.bars {
		prices[i] = bar.Price
	}

	return prices
}

// HasMissing reports whether any bar is missing its price.
func (s PriceSeries) HasMissing() bool {
	for _, bar := range s.bars {
		if bar.IsMissing() {
			return true
		}
	}

	return false
}

// DropMissing returns a series without the bars whose price is NaN.
func (s PriceSeries) DropMissing() PriceSeries {
	kept := make([]PriceBar, 0, len(s.bars))

	for _, bar := range s.bars {
		if !bar.IsMissing() {
			kept = append(kept, bar)
		}
	}

	return PriceSeries{symbol: s.symbol, bars: kept}
}

// From returns the series starting at bar i. Callers use it to drop a leading prefix.
func (s PriceSeries) From(i int) PriceSeries {
	if i >= len(s.bars) {
		return PriceSeries{symbol: s.symbol, bars: []PriceBar{}}
	}

	return PriceSeries{symbol: s.symbol, bars: s.bars[i:]}
}
