package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// EMA indicator implements Exponential Moving Average calculation.
// alpha = 2/(span+1). The mode decides how the first values are weighted:
//
//	unadjusted: ema[0] = p[0], ema[i] = alpha*p[i] + (1-alpha)*ema[i-1]
//	adjusted:   ema[i] = sum((1-alpha)^k * p[i-k]) / sum((1-alpha)^k), k = 0..i
//
// Both modes are defined from the first bar.
type EMA struct {
	period int
	mode   types.EMAMode
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
		mode:   types.EMAModeUnadjusted,
	}
}

// NewEMAWithPeriod creates an EMA with the given span and mode.
func NewEMAWithPeriod(period int, mode types.EMAMode) (Indicator, error) {
	ema := NewEMA()
	if err := ema.Config(period, mode); err != nil {
		return nil, err
	}

	return ema, nil
}

// Name returns the name of the indicator.
func (e *EMA) Name() IndicatorType {
	return IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int), optional mode (types.EMAMode).
func (e *EMA) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return fmt.Errorf("Config expects 1 or 2 parameters: period (int), mode (EMAMode)")
	}

	period, err := periodParam(params[0])
	if err != nil {
		return err
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	mode := e.mode

	if len(params) == 2 {
		switch m := params[1].(type) {
		case types.EMAMode:
			mode = m
		case string:
			mode = types.EMAMode(m)
		default:
			return fmt.Errorf("invalid type for mode parameter, expected EMAMode")
		}
	}

	if mode != types.EMAModeAdjusted && mode != types.EMAModeUnadjusted {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown EMA mode %q", mode)
	}

	e.period = period
	e.mode = mode

	return nil
}

// Compute implements Indicator.
func (e *EMA) Compute(prices []float64) ([]float64, error) {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out, nil
	}

	alpha := 2.0 / float64(e.period+1)
	decay := 1 - alpha

	// Both recursions are written as ema += step*(price-ema) so a constant series
	// stays exactly at its price.
	out[0] = prices[0]

	if e.mode == types.EMAModeUnadjusted {
		for i := 1; i < len(prices); i++ {
			out[i] = out[i-1] + alpha*(prices[i]-out[i-1])
		}

		return out, nil
	}

	// weights is the sum of the decayed weights (1-alpha)^k up to bar i.
	weights := 1.0
	for i := 1; i < len(prices); i++ {
		weights = 1 + decay*weights
		out[i] = out[i-1] + (prices[i]-out[i-1])/weights
	}

	return out, nil
}
