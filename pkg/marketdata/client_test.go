package marketdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ClientTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockProvider
	dataPath string
	params   DownloadParams
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockProvider(suite.ctrl)
	suite.dataPath = filepath.Join(suite.T().TempDir(), "data")
	suite.params = DownloadParams{
		Ticker:    "SPY",
		StartDate: time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ClientTestSuite) client() *Client {
	return NewClientWithProvider(ClientConfig{
		ProviderType:  "polygon",
		DataPath:      suite.dataPath,
		PolygonApiKey: "key",
	}, suite.provider)
}

func (suite *ClientTestSuite) TestNewClientValidatesConfig() {
	_, err := NewClient(ClientConfig{ProviderType: "polygon", DataPath: suite.dataPath, PolygonApiKey: ""}, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	client, err := NewClient(ClientConfig{ProviderType: "polygon", DataPath: suite.dataPath, PolygonApiKey: "key"}, nil)
	suite.Require().NoError(err)
	suite.NotNil(client)
}

func (suite *ClientTestSuite) TestDownloadRoundTrip() {
	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Symbol = "SPY"
	generatorConfig.Count = 250
	series := mocks.NewDataGenerator(1).Generate(generatorConfig)

	suite.provider.EXPECT().
		Fetch(gomock.Any(), "SPY", suite.params.StartDate, suite.params.EndDate).
		Return(series, nil)

	path, err := suite.client().Download(context.Background(), suite.params)
	suite.Require().NoError(err)
	suite.Equal(filepath.Join(suite.dataPath, "SPY_2015-01-02_2015-12-31_1_day.parquet"), path)

	source, err := datasource.Open(path, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer source.Close()

	loaded, err := datasource.LoadSeries(context.Background(), source, "SPY", optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(series.Prices(), loaded.Prices())
	suite.True(series.At(0).Time.Equal(loaded.At(0).Time))
}

func (suite *ClientTestSuite) TestDownloadProviderError() {
	suite.provider.EXPECT().
		Fetch(gomock.Any(), "SPY", gomock.Any(), gomock.Any()).
		Return(types.PriceSeries{}, errors.New(errors.ErrCodeDataUnavailable, "no data"))

	_, err := suite.client().Download(context.Background(), suite.params)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *ClientTestSuite) TestDownloadInvalidParams() {
	params := suite.params
	params.EndDate = params.StartDate.AddDate(0, 0, -1)

	_, err := suite.client().Download(context.Background(), params)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
