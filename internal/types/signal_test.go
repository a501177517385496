package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignalSeriesTestSuite struct {
	suite.Suite
}

func TestSignalSeriesSuite(t *testing.T) {
	suite.Run(t, new(SignalSeriesTestSuite))
}

func (suite *SignalSeriesTestSuite) TestWarmUpWithoutRSI() {
	nan := math.NaN()
	bars := []SignalBar{
		{Price: 1, ShortMA: nan, LongMA: nan, RSI: nan},
		{Price: 2, ShortMA: 1.5, LongMA: nan, RSI: nan},
		{Price: 3, ShortMA: 2.5, LongMA: 2, RSI: nan},
		{Price: 4, ShortMA: 3.5, LongMA: 3, RSI: nan},
	}

	series := NewSignalSeries("IBM", SignalConfig{ShortPeriod: 2, LongPeriod: 3}, bars)
	suite.Equal(4, series.Len())
	suite.Equal(2, series.WarmUp())
	suite.Len(series.Tradable(), 2)
	suite.Equal(3.0, series.Tradable()[0].Price)
	suite.False(series.HasRSI())
}

func (suite *SignalSeriesTestSuite) TestWarmUpWithRSI() {
	nan := math.NaN()
	bars := []SignalBar{
		{Price: 1, ShortMA: 1, LongMA: 1, RSI: nan},
		{Price: 2, ShortMA: 2, LongMA: 1, RSI: nan},
		{Price: 3, ShortMA: 3, LongMA: 2, RSI: 100},
	}

	series := NewSignalSeries("IBM", SignalConfig{WithRSI: true}, bars)
	suite.Equal(2, series.WarmUp())
	suite.True(series.HasRSI())
}

func (suite *SignalSeriesTestSuite) TestAllUndefined() {
	nan := math.NaN()
	series := NewSignalSeries("IBM", SignalConfig{}, []SignalBar{{ShortMA: nan, LongMA: nan}})
	suite.Equal(1, series.WarmUp())
	suite.Empty(series.Tradable())
}

func (suite *SignalSeriesTestSuite) TestTransitionIsExit() {
	suite.True(TransitionExitLong.IsExit())
	suite.True(TransitionForcedExit.IsExit())
	suite.False(TransitionEnterLong.IsExit())
	suite.False(TransitionNone.IsExit())
}
