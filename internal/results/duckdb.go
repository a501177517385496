package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// DuckDBWriter collects results in an in-memory DuckDB database and exports every
// table to <outputDir>/<table>.parquet on Finalize.
type DuckDBWriter struct {
	db        *sql.DB
	outputDir string
}

// NewDuckDBWriter creates a writer exporting into outputDir.
func NewDuckDBWriter(outputDir string) *DuckDBWriter {
	return &DuckDBWriter{
		db:        nil,
		outputDir: outputDir,
	}
}

// Initialize implements ResultWriter.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open DuckDB connection", err)
	}

	if _, err = w.db.Exec(schema); err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create tables", err)
	}

	return nil
}

// Write implements ResultWriter.
func (w *DuckDBWriter) Write(result backtest.Result) error {
	if w.db == nil {
		return errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	if err := insertResult(w.db, result); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write result", err)
	}

	return nil
}

// Finalize implements ResultWriter. It returns the parquet file paths.
func (w *DuckDBWriter) Finalize() ([]string, error) {
	if w.db == nil {
		return nil, errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create output folder", err)
	}

	paths := make([]string, 0, len(Tables))

	for _, table := range Tables {
		path := filepath.Join(w.outputDir, table+".parquet")

		_, err := w.db.Exec(fmt.Sprintf(`COPY %s TO '%s' (FORMAT PARQUET)`, table, path))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to export %s to parquet", table)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// Close implements ResultWriter.
func (w *DuckDBWriter) Close() error {
	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	return err
}
