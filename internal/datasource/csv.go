package datasource

import (
	"iter"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// csvTime accepts RFC 3339 timestamps and plain dates.
type csvTime time.Time

func (t *csvTime) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)

	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			*t = csvTime(parsed)

			return nil
		}
	}

	return errors.Newf(errors.ErrCodeInvalidPriceSeries, "invalid time %q", value)
}

// csvPrice reads an empty cell or "NaN" as a missing price.
type csvPrice float64

func (p *csvPrice) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*p = csvPrice(math.NaN())

		return nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidPriceSeries, err, "invalid price %q", value)
	}

	*p = csvPrice(parsed)

	return nil
}

type csvRow struct {
	Time  csvTime  `csv:"time"`
	Price csvPrice `csv:"price"`
}

// CSVSource reads a "time,price" CSV file into memory.
type CSVSource struct {
	logger *logger.Logger
	bars   []types.PriceBar
}

// NewCSVSource creates an empty CSV source.
func NewCSVSource(logger *logger.Logger) *CSVSource {
	return &CSVSource{
		logger: logger,
		bars:   nil,
	}
}

// Initialize implements PriceSource.
func (c *CSVSource) Initialize(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to open CSV file %s", path)
	}
	defer file.Close()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidPriceSeries, err, "failed to parse CSV file %s", path)
	}

	c.bars = make([]types.PriceBar, len(rows))
	for i, row := range rows {
		c.bars[i] = types.PriceBar{Time: time.Time(row.Time), Price: float64(row.Price)}
	}

	c.logger.Debug("Loaded CSV price bars", zap.String("path", path), zap.Int("bars", len(c.bars)))

	return nil
}

// ReadAll implements PriceSource. Rows are yielded in file order.
func (c *CSVSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.PriceBar, error] {
	return func(yield func(types.PriceBar, error) bool) {
		if c.bars == nil {
			yield(types.PriceBar{}, errors.New(errors.ErrCodeBacktestNoDataSource, "CSV source is not initialized"))

			return
		}

		for _, bar := range c.bars {
			if !inRange(bar.Time, start, end) {
				continue
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

// Count implements PriceSource.
func (c *CSVSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	if c.bars == nil {
		return 0, errors.New(errors.ErrCodeBacktestNoDataSource, "CSV source is not initialized")
	}

	count := 0

	for _, bar := range c.bars {
		if inRange(bar.Time, start, end) {
			count++
		}
	}

	return count, nil
}

// Close implements PriceSource.
func (c *CSVSource) Close() error {
	c.bars = nil

	return nil
}
