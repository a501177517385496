package datasource

import (
	"database/sql"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBSource reads the time and close columns of a parquet file through a DuckDB view.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBSource opens a DuckDB database at path. ":memory:" keeps it in memory.
func NewDuckDBSource(path string, logger *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open duckdb", err)
	}

	return &DuckDBSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements PriceSource.
func (d *DuckDBSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB price source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// squirrel does not build CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM read_parquet('%s');
	`, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to read parquet file %s", path)
	}

	return nil
}

// Count implements PriceSource.
func (d *DuckDBSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.filter(d.sq.Select("COUNT(*)").From("market_data"), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count price bars", err)
	}

	return count, nil
}

// ReadAll implements PriceSource. A NULL close reads as a missing price.
func (d *DuckDBSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.PriceBar, error] {
	return func(yield func(types.PriceBar, error) bool) {
		query, args, err := d.filter(d.sq.Select("time", "close").From("market_data"), start, end).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			yield(types.PriceBar{}, err)

			return
		}

		d.logger.Debug("Reading price bars from DuckDB", zap.String("query", query))

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.PriceBar{}, err)

			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				timestamp time.Time
				price     sql.NullFloat64
			)

			if err := rows.Scan(&timestamp, &price); err != nil {
				yield(types.PriceBar{}, err)

				return
			}

			bar := types.PriceBar{Time: timestamp, Price: math.NaN()}
			if price.Valid {
				bar.Price = price.Float64
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.PriceBar{}, err)
		}
	}
}

// Close implements PriceSource.
func (d *DuckDBSource) Close() error {
	return d.db.Close()
}

func (d *DuckDBSource) filter(
	builder squirrel.SelectBuilder,
	start optional.Option[time.Time],
	end optional.Option[time.Time],
) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}
