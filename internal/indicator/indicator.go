package indicator

import (
	"fmt"
	"math"
)

type IndicatorType string

const (
	IndicatorTypeMA  IndicatorType = "ma"
	IndicatorTypeEMA IndicatorType = "ema"
	IndicatorTypeRSI IndicatorType = "rsi"
)

// Indicator computes a derived series aligned with its input prices.
// Bars without enough history carry NaN.
type Indicator interface {
	// Name returns the name of the indicator
	Name() IndicatorType
	// Config configures the indicator; the expected parameters depend on the indicator.
	Config(params ...any) error
	// Compute returns one value per input price.
	Compute(prices []float64) ([]float64, error)
}

// periodParam reads a period from an int or a whole float64, as decoded from YAML or JSON.
func periodParam(param any) (int, error) {
	switch p := param.(type) {
	case int:
		return p, nil
	case float64:
		if p != math.Trunc(p) {
			return 0, fmt.Errorf("period must be a whole number, got %v", p)
		}

		return int(p), nil
	default:
		return 0, fmt.Errorf("invalid type for period parameter, expected int or float")
	}
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
