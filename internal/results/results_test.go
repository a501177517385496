package results

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ResultsTestSuite struct {
	suite.Suite
	result backtest.Result
}

func TestResultsSuite(t *testing.T) {
	suite.Run(t, new(ResultsTestSuite))
}

func (suite *ResultsTestSuite) SetupSuite() {
	config := backtest.EmptyConfig()
	config.Symbol = "SPY"
	config.MAKind = types.MAKindSimple
	config.EMAMode = ""
	config = config.WithPeriods(10, 30)

	engine, err := backtest.NewEngine(config)
	suite.Require().NoError(err)

	generatorConfig := mocks.DefaultConfig()
	generatorConfig.Symbol = "SPY"
	generatorConfig.Count = 500

	suite.result, err = engine.Run(context.Background(), mocks.NewDataGenerator(42).Generate(generatorConfig))
	suite.Require().NoError(err)
	suite.Require().NotEmpty(suite.result.Trades)
}

func (suite *ResultsTestSuite) TestWriteStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	suite.Require().NoError(WriteStats(path, []backtest.Result{suite.result}))

	stats, err := types.ReadRunStats(path)
	suite.Require().NoError(err)
	suite.Require().Len(stats, 1)
	suite.Equal(suite.result.ID, stats[0].ID)
	suite.Equal(suite.result.Stats.TradeResult, stats[0].TradeResult)
	suite.InDelta(suite.result.Stats.ProfitPercentage, stats[0].ProfitPercentage, 1e-9)
}

func (suite *ResultsTestSuite) TestDuckDBWriter() {
	dir := filepath.Join(suite.T().TempDir(), "out")
	writer := NewDuckDBWriter(dir)
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(suite.result))

	paths, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Require().Len(paths, len(Tables))

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	suite.Equal(suite.expectedRows(), suite.countRows(db, func(table string) string {
		return fmt.Sprintf("read_parquet('%s')", filepath.Join(dir, table+".parquet"))
	}))
}

func (suite *ResultsTestSuite) TestSQLiteWriter() {
	path := filepath.Join(suite.T().TempDir(), "results.db")
	writer := NewSQLiteWriter(path)
	suite.Require().NoError(writer.Initialize())

	suite.Require().NoError(writer.Write(suite.result))

	paths, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal([]string{path}, paths)
	suite.Require().NoError(writer.Close())

	db, err := sql.Open("sqlite3", path)
	suite.Require().NoError(err)
	defer db.Close()

	suite.Equal(suite.expectedRows(), suite.countRows(db, func(table string) string { return table }))

	// undefined warm-up values are stored as NULL
	var nulls int
	suite.Require().NoError(db.QueryRow(`SELECT COUNT(*) FROM signals WHERE long_ma IS NULL`).Scan(&nulls))
	suite.Equal(29, nulls)
}

func (suite *ResultsTestSuite) TestWriteBeforeInitialize() {
	for _, writer := range []ResultWriter{NewDuckDBWriter(suite.T().TempDir()), NewSQLiteWriter("unused.db")} {
		err := writer.Write(suite.result)
		suite.Require().Error(err)
		suite.True(errors.HasCode(err, errors.ErrCodeResultWriteFailed))

		_, err = writer.Finalize()
		suite.Error(err)
		suite.NoError(writer.Close())
	}
}

func (suite *ResultsTestSuite) TestSQLiteAppendsRuns() {
	path := filepath.Join(suite.T().TempDir(), "results.db")

	for i := 0; i < 2; i++ {
		writer := NewSQLiteWriter(path)
		suite.Require().NoError(writer.Initialize())
		suite.Require().NoError(writer.Write(suite.result))
		suite.Require().NoError(writer.Close())
	}

	db, err := sql.Open("sqlite3", path)
	suite.Require().NoError(err)
	defer db.Close()

	var runs int
	suite.Require().NoError(db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	suite.Equal(2, runs)
}

func (suite *ResultsTestSuite) expectedRows() map[string]int {
	return map[string]int{
		"runs":    1,
		"signals": suite.result.Signals.Len(),
		"equity":  len(suite.result.Equity),
		"trades":  len(suite.result.Trades),
	}
}

func (suite *ResultsTestSuite) countRows(db *sql.DB, source func(table string) string) map[string]int {
	counts := make(map[string]int, len(Tables))

	for _, table := range Tables {
		var count int
		suite.Require().NoError(db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, source(table))).Scan(&count))
		counts[table] = count
	}

	return counts
}
