package backtest

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
)

var day0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// crossingSignals builds 100 bars whose short average is above the long one on bars
// [enter, exit) and below it elsewhere. The first warmUp bars are undefined.
func crossingSignals(warmUp, enter, exit int, prices map[int]float64, rsi float64, withRSI bool) types.SignalSeries {
	bars := make([]types.SignalBar, 100)

	for i := range bars {
		price := 40.0
		if p, ok := prices[i]; ok {
			price = p
		}

		bar := types.SignalBar{
			Time:    day0.AddDate(0, 0, i),
			Price:   price,
			ShortMA: 9,
			LongMA:  10,
			RSI:     rsi,
		}

		if i >= enter && i < exit {
			bar.ShortMA = 11
		}

		if i < warmUp {
			bar.ShortMA = math.NaN()
			bar.LongMA = math.NaN()
			bar.RSI = math.NaN()
		}

		bars[i] = bar
	}

	return types.NewSignalSeries("TEST", types.SignalConfig{
		ShortPeriod: 5,
		LongPeriod:  10,
		MAKind:      types.MAKindSimple,
		EMAMode:     "",
		WithRSI:     withRSI,
		RSIPeriod:   types.DefaultRSIPeriod,
	}, bars)
}

func priceSeries(prices ...float64) types.PriceSeries {
	bars := make([]types.PriceBar, len(prices))
	for i, price := range prices {
		bars[i] = types.PriceBar{Time: day0.AddDate(0, 0, i), Price: price}
	}

	series, err := types.NewPriceSeries("TEST", bars)
	if err != nil {
		panic(err)
	}

	return series
}

func constant(n int, value float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = value
	}

	return prices
}

// wave returns a price path that rises and falls with the given period, giving
// repeated crossovers.
func wave(n int, period float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 20*math.Sin(2*math.Pi*float64(i)/period) + 0.05*float64(i)
	}

	return prices
}

func nan() float64 {
	return math.NaN()
}
