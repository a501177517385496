package results

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// SQLiteWriter stores results in a single SQLite database file.
type SQLiteWriter struct {
	db   *sql.DB
	path string
}

// NewSQLiteWriter creates a writer for the database at path.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		db:   nil,
		path: path,
	}
}

// Initialize implements ResultWriter. Existing tables are appended to.
func (w *SQLiteWriter) Initialize() (err error) {
	w.db, err = sql.Open("sqlite3", w.path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open sqlite database", err)
	}

	w.db.SetMaxOpenConns(1)

	if _, err = w.db.Exec(schema); err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create tables", err)
	}

	return nil
}

// Write implements ResultWriter.
func (w *SQLiteWriter) Write(result backtest.Result) error {
	if w.db == nil {
		return errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	if err := insertResult(w.db, result); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write result", err)
	}

	return nil
}

// Finalize implements ResultWriter. Writes are committed per result, so it only
// reports the database path.
func (w *SQLiteWriter) Finalize() ([]string, error) {
	if w.db == nil {
		return nil, errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	return []string{w.path}, nil
}

// Close implements ResultWriter.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	return err
}
