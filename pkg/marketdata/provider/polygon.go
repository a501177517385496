package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// PolygonAggsIterator is the subset of the polygon aggregate iterator the client reads.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient lists polygon aggregates.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (c polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return c.client.ListAggs(ctx, params, options...)
}

// PolygonClient fetches split-adjusted daily aggregates from Polygon.io.
type PolygonClient struct {
	apiClient  PolygonAPIClient
	onProgress OnDownloadProgress
}

// NewPolygonClient creates a client authenticated with apiKey. onProgress may be nil.
func NewPolygonClient(apiKey string, onProgress OnDownloadProgress) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "apiKey is required")
	}

	return NewPolygonClientWithAPI(polygonRESTClient{client: polygon.New(apiKey)}, onProgress), nil
}

// NewPolygonClientWithAPI creates a client on top of an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, onProgress OnDownloadProgress) *PolygonClient {
	return &PolygonClient{
		apiClient:  apiClient,
		onProgress: onProgress,
	}
}

// Fetch implements Provider.
func (c *PolygonClient) Fetch(ctx context.Context, symbol string, start time.Time, end time.Time) (types.PriceSeries, error) {
	if !end.After(start) {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeInvalidParameter,
			"end %s must be after start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithAdjusted(true).WithOrder(models.Asc).WithLimit(50000)

	totalDays := end.Sub(start).Hours()/24 + 1
	message := fmt.Sprintf("Downloading %s", symbol)

	iter := c.apiClient.ListAggs(ctx, params)

	bars := []types.PriceBar{}

	for iter.Next() {
		agg := iter.Item()
		barTime := time.Time(agg.Timestamp).UTC()

		bars = append(bars, types.PriceBar{Time: barTime, Price: agg.Close})

		if c.onProgress != nil {
			c.onProgress(barTime.Sub(start).Hours()/24, totalDays, message)
		}
	}

	if err := iter.Err(); err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "error iterating polygon aggregates for %s", symbol)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeDataUnavailable,
			"polygon returned no aggregates for %s between %s and %s",
			symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	if c.onProgress != nil {
		c.onProgress(totalDays, totalDays, message)
	}

	series, err := types.NewPriceSeries(symbol, bars)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "polygon returned invalid aggregates for %s", symbol)
	}

	return series, nil
}
