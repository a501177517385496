// Package datasource reads price series from files.
package datasource

import (
	"context"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// PriceSource is a file-backed source of price bars.
type PriceSource interface {
	// Initialize opens the data at path.
	Initialize(path string) error
	// ReadAll yields the bars inside the optional time range in time order.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.PriceBar, error]
	// Count returns the number of bars inside the optional time range.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases the resources of the source.
	Close() error
}

// Open creates and initializes the source matching the file extension of path:
// .csv files are read with CSVSource and everything else as parquet with DuckDBSource.
func Open(path string, log *logger.Logger) (PriceSource, error) {
	var (
		source PriceSource
		err    error
	)

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		source = NewCSVSource(log)
	} else {
		source, err = NewDuckDBSource(":memory:", log)
		if err != nil {
			return nil, err
		}
	}

	if err := source.Initialize(path); err != nil {
		source.Close()

		return nil, err
	}

	return source, nil
}

// LoadSeries reads every bar of src inside the optional time range into a validated
// series. Bars with missing prices are dropped.
func LoadSeries(
	ctx context.Context,
	src PriceSource,
	symbol string,
	start optional.Option[time.Time],
	end optional.Option[time.Time],
) (types.PriceSeries, error) {
	bars := []types.PriceBar{}

	for bar, err := range src.ReadAll(start, end) {
		if err != nil {
			return types.PriceSeries{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read price bars", err)
		}

		if err := ctx.Err(); err != nil {
			return types.PriceSeries{}, err
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no price data found for %s", symbol)
	}

	series, err := types.NewPriceSeries(symbol, bars)
	if err != nil {
		return types.PriceSeries{}, err
	}

	return series.DropMissing(), nil
}

func inRange(t time.Time, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
