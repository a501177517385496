package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/window"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// NewMAWithPeriod creates an MA over the given window.
func NewMAWithPeriod(period int) (Indicator, error) {
	ma := NewMA()
	if err := ma.Config(period); err != nil {
		return nil, err
	}

	return ma, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() IndicatorType {
	return IndicatorTypeMA
}

// Config expects parameters: period (int).
func (m *MA) Config(params ...any) error {
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

	m.period = period

	return nil
}

// Compute returns the trailing mean of prices[i-period+1..i]; NaN for i < period-1.
func (m *MA) Compute(prices []float64) ([]float64, error) {
	out := nanSeries(len(prices))
	w := window.New(m.period)

	for i, price := range prices {
		w.Push(price)

		if w.Full() {
			out[i] = w.Mean()
		}
	}

	return out, nil
}
