// Package performance computes summary statistics of a backtest run.
package performance

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

// TradingDaysPerYear annualises daily Sharpe ratios.
const TradingDaysPerYear = 252

// Report holds the summary statistics of one run.
type Report struct {
	// ProfitPercentage is (equity[-1] - equity[0]) / equity[0] * 100.
	ProfitPercentage float64
	// FinalCapital is the last value of the equity log.
	FinalCapital float64
	// MaxDrawdown is the largest peak-to-trough drop of the equity log, in percent.
	MaxDrawdown float64
	// Sharpe is the annualised Sharpe ratio of the price returns. None when undefined.
	Sharpe optional.Option[float64]
}

// Analyze computes the report of an equity log and the price series it was simulated on.
//
// An invalid equity log fails the whole call. A Sharpe ratio that is undefined for the
// prices is reported as a DegenerateStatisticsError together with a report whose other
// fields are filled and whose Sharpe is None.
func Analyze(equity []float64, prices []float64) (Report, error) {
	profit, err := ProfitPercentage(equity)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		ProfitPercentage: profit,
		FinalCapital:     equity[len(equity)-1],
		MaxDrawdown:      MaxDrawdown(equity),
		Sharpe:           optional.None[float64](),
	}

	sharpe, err := SharpeRatio(prices)
	if err != nil {
		return report, err
	}

	report.Sharpe = optional.Some(sharpe)

	return report, nil
}

// ProfitPercentage returns the realised return of an equity log in percent.
func ProfitPercentage(equity []float64) (float64, error) {
	if len(equity) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "equity log is empty")
	}

	first, last := equity[0], equity[len(equity)-1]
	if !isFinite(first) || !isFinite(last) {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "equity must be finite, got %v and %v", first, last)
	}

	if first == 0 {
		return 0, errors.New(errors.ErrCodeDivisionByZero, "initial equity is zero")
	}

	start := decimal.NewFromFloat(first)
	end := decimal.NewFromFloat(last)

	profit, _ := end.Sub(start).Div(start).Mul(decimal.NewFromInt(100)).Float64()

	return profit, nil
}

// Returns computes simple returns r[i] = (p[i] - p[i-1]) / p[i-1].
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return []float64{}, nil
	}

	returns := make([]float64, len(prices)-1)

	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return nil, errors.Newf(errors.ErrCodeDivisionByZero, "price at bar %d is zero", i-1)
		}

		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}

	return returns, nil
}

// SharpeRatio returns mean(r) / std(r) * sqrt(252) over the simple returns of prices,
// using the sample standard deviation.
// Fewer than two returns or zero variance yield a DegenerateStatisticsError.
func SharpeRatio(prices []float64) (float64, error) {
	returns, err := Returns(prices)
	if err != nil {
		return 0, err
	}

	if len(returns) < 2 {
		return 0, errors.NewDegenerateStatisticsError("sharpe_ratio", len(returns), "fewer than 2 returns")
	}

	mean, std := meanStd(returns)
	if std == 0 {
		return 0, errors.NewDegenerateStatisticsError("sharpe_ratio", len(returns), "returns have zero variance")
	}

	return mean / std * math.Sqrt(TradingDaysPerYear), nil
}

// MaxDrawdown returns the largest drop from a running peak of the equity log, in percent.
func MaxDrawdown(equity []float64) float64 {
	peak := math.Inf(-1)
	maxDrawdown := 0.0

	for _, value := range equity {
		if value > peak {
			peak = value
		}

		if peak > 0 {
			drawdown := (peak - value) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// BuyAndHoldPercentage returns the return of holding from the first price to the last, in percent.
func BuyAndHoldPercentage(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "price series is empty")
	}

	return ProfitPercentage([]float64{prices[0], prices[len(prices)-1]})
}

// meanStd returns the mean and the sample (n-1) standard deviation, computed with
// Welford's update. Values that are all equal give exactly zero.
func meanStd(values []float64) (float64, float64) {
	mean, m2 := 0.0, 0.0

	for i, v := range values {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}

	return mean, math.Sqrt(m2 / float64(len(values)-1))
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
