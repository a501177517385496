package types

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type PriceSeriesTestSuite struct {
	suite.Suite
	start time.Time
}

func TestPriceSeriesSuite(t *testing.T) {
	suite.Run(t, new(PriceSeriesTestSuite))
}

func (suite *PriceSeriesTestSuite) SetupTest() {
	suite.start = time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
}

func (suite *PriceSeriesTestSuite) bars(prices ...float64) []PriceBar {
	bars := make([]PriceBar, len(prices))
	for i, p := range prices {
		bars[i] = PriceBar{Time: suite.start.AddDate(0, 0, i), Price: p}
	}

	return bars
}

func (suite *PriceSeriesTestSuite) TestNewPriceSeries() {
	series, err := NewPriceSeries("IBM", suite.bars(10, 11, 12))
	suite.NoError(err)
	suite.Equal("IBM", series.Symbol())
	suite.Equal(3, series.Len())
	suite.Equal([]float64{10, 11, 12}, series.Prices())
	suite.Equal(11.0, series.At(1).Price)
}

func (suite *PriceSeriesTestSuite) TestNewPriceSeriesCopiesInput() {
	bars := suite.bars(10, 11)
	series, err := NewPriceSeries("IBM", bars)
	suite.NoError(err)

	bars[0].Price = 99
	suite.Equal(10.0, series.At(0).Price)

	out := series.Bars()
	out[1].Price = 77
	suite.Equal(11.0, series.At(1).Price)
}

func (suite *PriceSeriesTestSuite) TestRejectsNonIncreasingTime() {
	bars := suite.bars(10, 11, 12)
	bars[2].Time = bars[1].Time

	_, err := NewPriceSeries("IBM", bars)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPriceSeries))
}

func (suite *PriceSeriesTestSuite) TestRejectsNonPositivePrice() {
	for _, price := range []float64{0, -1, math.Inf(1)} {
		_, err := NewPriceSeries("IBM", suite.bars(10, price))
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidPriceSeries), "price %v", price)
	}
}

func (suite *PriceSeriesTestSuite) TestDropMissing() {
	series, err := NewPriceSeries("IBM", suite.bars(10, math.NaN(), 12, math.NaN()))
	suite.NoError(err)
	suite.True(series.HasMissing())

	clean := series.DropMissing()
	suite.False(clean.HasMissing())
	suite.Equal([]float64{10, 12}, clean.Prices())
	suite.Equal(suite.start.AddDate(0, 0, 2), clean.At(1).Time)
	suite.Equal(4, series.Len())
}

func (suite *PriceSeriesTestSuite) TestFrom() {
	series, err := NewPriceSeries("IBM", suite.bars(10, 11, 12))
	suite.NoError(err)

	suite.Equal([]float64{11, 12}, series.From(1).Prices())
	suite.Equal(0, series.From(5).Len())
}
