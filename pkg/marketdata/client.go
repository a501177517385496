// Package marketdata downloads price history and stores it as parquet files readable
// by the backtest data sources.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/writer"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads price history from a provider and stores it as parquet.
type Client struct {
	provider provider.Provider
	config   ClientConfig
	validate *validator.Validate
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.PolygonApiKey, onProgress)
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(config, marketProvider), nil
}

// NewClientWithProvider creates a client on top of an existing provider.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider) *Client {
	return &Client{
		provider: marketProvider,
		config:   config,
		validate: validator.New(),
	}
}

// Download fetches the requested history and writes it to
// <DataPath>/<TICKER>_<START>_<END>_1_day.parquet, returning the file path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	series, err := c.provider.Fetch(ctx, params.Ticker, params.StartDate, params.EndDate)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data folder", err)
	}

	outputPath := filepath.Join(c.config.DataPath, OutputFileName(params))

	return SaveParquet(series, outputPath)
}

// OutputFileName names the parquet file of a download.
func OutputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_1_day.parquet",
		params.Ticker,
		params.StartDate.Format(time.DateOnly),
		params.EndDate.Format(time.DateOnly))
}

// SaveParquet writes series to a parquet file at path.
func SaveParquet(series types.PriceSeries, path string) (outputPath string, err error) {
	parquetWriter := writer.NewDuckDBWriter(path)

	if err := parquetWriter.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := parquetWriter.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close writer", cerr)
		}
	}()

	for _, bar := range series.Bars() {
		if err := parquetWriter.Write(series.Symbol(), bar); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write price bar", err)
		}
	}

	outputPath, err = parquetWriter.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}
