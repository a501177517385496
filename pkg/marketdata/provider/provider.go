package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
)

// OnDownloadProgress reports download progress in days.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider fetches daily price history from an external service.
type Provider interface {
	// Fetch returns the daily closes of symbol between start and end, both inclusive.
	// The context can be used to cancel the request.
	// Failures are reported with ErrCodeDataUnavailable.
	// example:
	// Fetch(ctx, "SPY", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC))
	Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, apiKey string, onProgress OnDownloadProgress) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		client, err := NewPolygonClient(apiKey, onProgress)
		if err != nil {
			return nil, err
		}

		return client, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
