// Package results persists backtest results.
package results

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// ResultWriter stores backtest results.
type ResultWriter interface {
	// Initialize prepares the storage.
	Initialize() error
	// Write stores one result.
	Write(result backtest.Result) error
	// Finalize flushes the stored results and returns where they were written.
	Finalize() ([]string, error)
	// Close releases the writer's resources.
	Close() error
}

// Tables written by every ResultWriter.
var Tables = []string{"runs", "signals", "equity", "trades"}

// WriteStats writes the summary stats of results to a YAML file.
func WriteStats(path string, results []backtest.Result) error {
	stats := make([]types.RunStats, len(results))
	for i, result := range results {
		stats[i] = result.Stats
	}

	if err := types.WriteRunStats(path, stats); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write stats", err)
	}

	return nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT,
		timestamp TIMESTAMP,
		symbol TEXT,
		strategy TEXT,
		bars INTEGER,
		warm_up INTEGER,
		trades INTEGER,
		initial_capital DOUBLE,
		final_capital DOUBLE,
		profit_percentage DOUBLE,
		sharpe_ratio DOUBLE,
		buy_and_hold_percentage DOUBLE,
		open_position BOOLEAN
	);
	CREATE TABLE IF NOT EXISTS signals (
		run_id TEXT,
		time TIMESTAMP,
		price DOUBLE,
		short_ma DOUBLE,
		long_ma DOUBLE,
		rsi DOUBLE
	);
	CREATE TABLE IF NOT EXISTS equity (
		run_id TEXT,
		trade_index INTEGER,
		capital DOUBLE
	);
	CREATE TABLE IF NOT EXISTS trades (
		run_id TEXT,
		entry_time TIMESTAMP,
		entry_price DOUBLE,
		exit_time TIMESTAMP,
		exit_price DOUBLE,
		multiple DOUBLE,
		forced BOOLEAN
	);
`

// insertResult writes one result into the tables created by schema.
func insertResult(db *sql.DB, result backtest.Result) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stats := result.Stats

	var sharpe any
	if stats.SharpeRatio != nil {
		sharpe = *stats.SharpeRatio
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, timestamp, symbol, strategy, bars, warm_up, trades, initial_capital,
			final_capital, profit_percentage, sharpe_ratio, buy_and_hold_percentage, open_position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Timestamp, stats.Symbol, result.Config.Name(), stats.Bars, stats.WarmUp,
		stats.TradeResult.NumberOfTrades, stats.InitialCapital, stats.FinalCapital, stats.ProfitPercentage,
		sharpe, stats.BuyAndHoldPercentage, stats.OpenPosition,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	signalStmt, err := tx.Prepare(`INSERT INTO signals (run_id, time, price, short_ma, long_ma, rsi) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare signal insert: %w", err)
	}
	defer signalStmt.Close()

	for _, bar := range result.Signals.Bars() {
		_, err = signalStmt.Exec(result.ID, bar.Time, bar.Price, nullable(bar.ShortMA), nullable(bar.LongMA), nullable(bar.RSI))
		if err != nil {
			return fmt.Errorf("failed to insert signal: %w", err)
		}
	}

	for i, capital := range result.Equity {
		_, err = tx.Exec(`INSERT INTO equity (run_id, trade_index, capital) VALUES (?, ?, ?)`, result.ID, i, capital)
		if err != nil {
			return fmt.Errorf("failed to insert equity: %w", err)
		}
	}

	for _, trade := range result.Trades {
		_, err = tx.Exec(`
			INSERT INTO trades (run_id, entry_time, entry_price, exit_time, exit_price, multiple, forced)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.ID, trade.EntryTime, trade.EntryPrice, trade.ExitTime, trade.ExitPrice, trade.Multiple, trade.Forced,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nullable stores undefined values as NULL.
func nullable(value float64) any {
	if math.IsNaN(value) {
		return nil
	}

	return value
}
