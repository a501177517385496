package performance

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PerformanceTestSuite struct {
	suite.Suite
}

func TestPerformanceSuite(t *testing.T) {
	suite.Run(t, new(PerformanceTestSuite))
}

func (suite *PerformanceTestSuite) TestProfitPercentage() {
	tests := []struct {
		name     string
		equity   []float64
		expected float64
		fails    bool
		code     errors.ErrorCode
	}{
		{name: "single value", equity: []float64{100}, expected: 0},
		{name: "gain", equity: []float64{100, 120, 150}, expected: 50},
		{name: "loss", equity: []float64{100, 80}, expected: -20},
		{name: "empty", equity: []float64{}, fails: true, code: errors.ErrCodeInvalidParameter},
		{name: "zero start", equity: []float64{0, 10}, fails: true, code: errors.ErrCodeDivisionByZero},
		{name: "nan end", equity: []float64{100, math.NaN()}, fails: true, code: errors.ErrCodeInvalidParameter},
		{name: "infinite start", equity: []float64{math.Inf(1), 100}, fails: true, code: errors.ErrCodeInvalidParameter},
		{name: "negative infinite end", equity: []float64{100, math.Inf(-1)}, fails: true, code: errors.ErrCodeInvalidParameter},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			profit, err := ProfitPercentage(tc.equity)
			if tc.fails {
				suite.True(errors.HasCode(err, tc.code), "got %v", err)
				return
			}

			suite.Require().NoError(err)
			suite.InDelta(tc.expected, profit, 1e-9)
		})
	}
}

func (suite *PerformanceTestSuite) TestSharpeRatioUsesSampleStd() {
	// returns 0.1, -0.1, 0.1: mean 1/30, sample variance 0.04/3
	sharpe, err := SharpeRatio([]float64{100, 110, 99, 108.9})
	suite.Require().NoError(err)

	expected := (1.0 / 30) / math.Sqrt(0.04/3) * math.Sqrt(TradingDaysPerYear)
	suite.InDelta(expected, sharpe, 1e-9)
}

func (suite *PerformanceTestSuite) TestSharpeRatioDegenerate() {
	tests := []struct {
		name   string
		prices []float64
	}{
		{name: "empty", prices: nil},
		{name: "one return", prices: []float64{100, 101}},
		{name: "flat", prices: []float64{100, 100, 100, 100}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := SharpeRatio(tc.prices)
			suite.True(errors.IsDegenerateStatisticsError(err), "got %v", err)
		})
	}
}

func (suite *PerformanceTestSuite) TestReturnsZeroPrice() {
	_, err := Returns([]float64{100, 0, 10})
	suite.True(errors.HasCode(err, errors.ErrCodeDivisionByZero))
}

func (suite *PerformanceTestSuite) TestMaxDrawdown() {
	suite.InDelta(25.0, MaxDrawdown([]float64{100, 120, 90, 130, 117}), 1e-9)
	suite.Equal(0.0, MaxDrawdown([]float64{100, 110, 120}))
	suite.Equal(0.0, MaxDrawdown(nil))
}

func (suite *PerformanceTestSuite) TestBuyAndHoldPercentage() {
	profit, err := BuyAndHoldPercentage([]float64{50, 40, 75})
	suite.Require().NoError(err)
	suite.InDelta(50.0, profit, 1e-9)

	_, err = BuyAndHoldPercentage(nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *PerformanceTestSuite) TestAnalyze() {
	report, err := Analyze([]float64{100, 120, 90}, []float64{100, 110, 99, 108.9})
	suite.Require().NoError(err)
	suite.InDelta(-10.0, report.ProfitPercentage, 1e-9)
	suite.Equal(90.0, report.FinalCapital)
	suite.InDelta(25.0, report.MaxDrawdown, 1e-9)
	suite.True(report.Sharpe.IsSome())
}

func (suite *PerformanceTestSuite) TestAnalyzeDegenerateSharpeKeepsProfit() {
	report, err := Analyze([]float64{100}, []float64{100, 100, 100})
	suite.True(errors.IsDegenerateStatisticsError(err))
	suite.Equal(0.0, report.ProfitPercentage)
	suite.Equal(100.0, report.FinalCapital)
	suite.True(report.Sharpe.IsNone())
}

func (suite *PerformanceTestSuite) TestBuyAndHoldNonFinitePrice() {
	suite.NotPanics(func() {
		_, err := BuyAndHoldPercentage([]float64{math.NaN(), 100})
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	})
}

func (suite *PerformanceTestSuite) TestAnalyzeEmptyEquity() {
	_, err := Analyze(nil, []float64{100, 110, 120})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
