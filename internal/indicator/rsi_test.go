package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestNewRSI() {
	rsi := NewRSI()
	suite.Equal(14, rsi.(*RSI).period)
	suite.Equal(IndicatorTypeRSI, rsi.Name())

	suite.NoError(rsi.Config(5))
	suite.Equal(5, rsi.(*RSI).period)
	suite.Error(rsi.Config(5, 30.0))
	suite.True(errors.HasCode(rsi.Config(0), errors.ErrCodeInvalidPeriod))
}

func (suite *RSITestSuite) TestCompute() {
	rsi, err := NewRSIWithPeriod(2)
	suite.Require().NoError(err)

	// moves: +1, -1, +2
	values, err := rsi.Compute([]float64{1, 2, 1, 3})
	suite.Require().NoError(err)
	suite.Len(values, 4)
	suite.True(math.IsNaN(values[0]))
	suite.True(math.IsNaN(values[1]))
	suite.InDelta(50.0, values[2], 1e-12)
	suite.InDelta(100-100.0/3, values[3], 1e-12)
}

func (suite *RSITestSuite) TestFirstDefinedIndexIsPeriod() {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + math.Sin(float64(i))
	}

	values, err := NewRSI().Compute(prices)
	suite.Require().NoError(err)

	for i := 0; i < 14; i++ {
		suite.True(math.IsNaN(values[i]), "index %d", i)
	}

	suite.False(math.IsNaN(values[14]))
}

func (suite *RSITestSuite) TestNoLossesIsExactlyHundred() {
	// Losses leave the window after 14 rising bars; the float sums may not return
	// to exactly zero but the RSI must.
	prices := []float64{10, 9.7, 9.1, 8.3}
	for i := 0; i < 30; i++ {
		prices = append(prices, prices[len(prices)-1]+0.1)
	}

	values, err := NewRSI().Compute(prices)
	suite.Require().NoError(err)

	for i := 3 + 14; i < len(prices); i++ {
		suite.Equal(100.0, values[i], "index %d", i)
	}
}

func (suite *RSITestSuite) TestFlatSeriesIsHundred() {
	values, err := NewRSI().Compute(constant(30, 10))
	suite.Require().NoError(err)

	for i := 14; i < 30; i++ {
		suite.Equal(100.0, values[i])
	}
}

func (suite *RSITestSuite) TestFallingSeriesIsZero() {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}

	values, err := NewRSI().Compute(prices)
	suite.Require().NoError(err)
	suite.Equal(0.0, values[19])
}

func (suite *RSITestSuite) TestBounded() {
	rng := rand.New(rand.NewSource(7))
	prices := make([]float64, 1000)
	prices[0] = 100

	for i := 1; i < len(prices); i++ {
		prices[i] = prices[i-1] * (1 + 0.02*rng.NormFloat64())
	}

	values, err := NewRSI().Compute(prices)
	suite.Require().NoError(err)

	for i := 14; i < len(values); i++ {
		suite.GreaterOrEqual(values[i], 0.0)
		suite.LessOrEqual(values[i], 100.0)
	}
}
