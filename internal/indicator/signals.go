package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// ComputeSignals derives the short and long moving averages and, when requested,
// the RSI of a price series. The result has one bar per input bar; the leading bars
// whose windows lack history carry NaN and form the series' warm-up prefix.
//
// The series must not contain missing prices; call DropMissing first.
// A series shorter than the longest moving-average window fails with an
// InsufficientDataError.
func ComputeSignals(series types.PriceSeries, config types.SignalConfig) (types.SignalSeries, error) {
	if config.ShortPeriod <= 0 || config.LongPeriod <= 0 {
		return types.SignalSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod,
			"moving average periods must be positive, got short=%d long=%d", config.ShortPeriod, config.LongPeriod)
	}

	if config.WithRSI && config.RSIPeriod == 0 {
		config.RSIPeriod = types.DefaultRSIPeriod
	}

	if series.HasMissing() {
		return types.SignalSeries{}, errors.New(errors.ErrCodeInvalidPriceSeries,
			"price series contains missing values, drop them before computing signals")
	}

	required := max(config.ShortPeriod, config.LongPeriod)
	if series.Len() < required {
		return types.SignalSeries{}, errors.NewInsufficientDataErrorf(required, series.Len(), series.Symbol(),
			"need at least %d bars for a %d/%d crossover, got %d",
			required, config.ShortPeriod, config.LongPeriod, series.Len())
	}

	short, err := movingAverage(config.MAKind, config.ShortPeriod, config.EMAMode)
	if err != nil {
		return types.SignalSeries{}, err
	}

	long, err := movingAverage(config.MAKind, config.LongPeriod, config.EMAMode)
	if err != nil {
		return types.SignalSeries{}, err
	}

	prices := series.Prices()

	shortValues, err := short.Compute(prices)
	if err != nil {
		return types.SignalSeries{}, fmt.Errorf("failed to compute short %s: %w", short.Name(), err)
	}

	longValues, err := long.Compute(prices)
	if err != nil {
		return types.SignalSeries{}, fmt.Errorf("failed to compute long %s: %w", long.Name(), err)
	}

	rsiValues := nanSeries(len(prices))

	if config.WithRSI {
		rsi, err := NewRSIWithPeriod(config.RSIPeriod)
		if err != nil {
			return types.SignalSeries{}, err
		}

		rsiValues, err = rsi.Compute(prices)
		if err != nil {
			return types.SignalSeries{}, fmt.Errorf("failed to compute rsi: %w", err)
		}
	}

	bars := make([]types.SignalBar, len(prices))
	for i := range prices {
		bars[i] = types.SignalBar{
			Time:    series.At(i).Time,
			Price:   prices[i],
			ShortMA: shortValues[i],
			LongMA:  longValues[i],
			RSI:     rsiValues[i],
		}
	}

	return types.NewSignalSeries(series.Symbol(), config, bars), nil
}

func movingAverage(kind types.MAKind, period int, mode types.EMAMode) (Indicator, error) {
	switch kind {
	case types.MAKindSimple:
		return NewMAWithPeriod(period)
	case types.MAKindExponential:
		if mode == "" {
			return nil, errors.New(errors.ErrCodeInvalidParameter,
				"EMA mode must be set explicitly to adjusted or unadjusted")
		}

		return NewEMAWithPeriod(period, mode)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown moving average kind %q", kind)
	}
}
