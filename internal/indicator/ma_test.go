package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestNewMA() {
	ma := NewMA()
	suite.Equal(20, ma.(*MA).period)
	suite.Equal(IndicatorTypeMA, ma.Name())
}

func (suite *MATestSuite) TestConfig() {
	ma := NewMA()
	suite.NoError(ma.Config(5))
	suite.Equal(5, ma.(*MA).period)

	suite.NoError(ma.Config(7.0))
	suite.Equal(7, ma.(*MA).period)

	suite.Error(ma.Config())
	suite.Error(ma.Config("five"))
	suite.Error(ma.Config(2.5))

	err := ma.Config(0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *MATestSuite) TestCompute() {
	ma, err := NewMAWithPeriod(3)
	suite.Require().NoError(err)

	values, err := ma.Compute([]float64{1, 2, 3, 4, 5, 9})
	suite.Require().NoError(err)
	suite.Len(values, 6)
	suite.True(math.IsNaN(values[0]))
	suite.True(math.IsNaN(values[1]))
	suite.Equal(2.0, values[2])
	suite.Equal(3.0, values[3])
	suite.Equal(4.0, values[4])
	suite.InDelta(6.0, values[5], 1e-12)
}

func (suite *MATestSuite) TestWindowOneIsIdentity() {
	prices := []float64{10.5, 3.25, 7.125, 99.9, 0.01}

	ma, err := NewMAWithPeriod(1)
	suite.Require().NoError(err)

	values, err := ma.Compute(prices)
	suite.Require().NoError(err)
	suite.Equal(prices, values)
}

func (suite *MATestSuite) TestConstantSeriesIsExact() {
	ma, err := NewMAWithPeriod(30)
	suite.Require().NoError(err)

	values, err := ma.Compute(constant(100, 10))
	suite.Require().NoError(err)

	for i := 29; i < 100; i++ {
		suite.Equal(10.0, values[i])
	}
}

func (suite *MATestSuite) TestEmptyInput() {
	ma := NewMA()
	values, err := ma.Compute(nil)
	suite.NoError(err)
	suite.Empty(values)
}
