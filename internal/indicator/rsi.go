package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/window"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
// Gains and losses are averaged with a simple rolling mean over period moves,
// so the first defined value is at index period.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: types.DefaultRSIPeriod,
	}
}

// NewRSIWithPeriod creates an RSI over the given number of moves.
func NewRSIWithPeriod(period int) (Indicator, error) {
	rsi := NewRSI()
	if err := rsi.Config(period); err != nil {
		return nil, err
	}

	return rsi, nil
}

// Name returns the name of the indicator.
func (r *RSI) Name() IndicatorType {
	return IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return fmt.Errorf("Config expects 1 parameter: period (int)")
	}

	period, err := periodParam(params[0])
	if err != nil {
		return err
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Compute implements Indicator.
func (r *RSI) Compute(prices []float64) ([]float64, error) {
	out := nanSeries(len(prices))

	gains := window.New(r.period)
	losses := window.New(r.period)
	// Counts of strictly positive entries, kept apart from the float sums so that
	// "no loss in the window" is detected exactly.
	gainCount := window.New(r.period)
	lossCount := window.New(r.period)

	for i := 1; i < len(prices); i++ {
		move := prices[i] - prices[i-1]

		gain, loss := 0.0, 0.0
		if move > 0 {
			gain = move
		} else if move < 0 {
			loss = -move
		}

		gains.Push(gain)
		losses.Push(loss)
		gainCount.Push(indicatorBit(gain > 0))
		lossCount.Push(indicatorBit(loss > 0))

		if !gains.Full() {
			continue
		}

		avgGain := gains.Mean()
		if gainCount.Sum() == 0 {
			avgGain = 0
		}

		out[i] = relativeStrengthIndex(avgGain, losses.Mean(), lossCount.Sum() == 0)
	}

	return out, nil
}

// relativeStrengthIndex maps average gain and loss to [0, 100].
// A window without losses has an infinite RS and an RSI of 100 by definition,
// including the flat window where the average gain is also zero.
func relativeStrengthIndex(avgGain, avgLoss float64, noLoss bool) float64 {
	if noLoss || avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}

func indicatorBit(set bool) float64 {
	if set {
		return 1
	}

	return 0
}
