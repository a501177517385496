package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/rxtech-lab/argo-crossover/internal/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/metrics"
	"github.com/rxtech-lab/argo-crossover/internal/results"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// session holds what run and sweep set up from their shared flags.
type session struct {
	config  backtest.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	series  types.PriceSeries
	engine  *backtest.Engine
}

func newSession(ctx context.Context, cmd *cli.Command) (*session, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	config := backtest.EmptyConfig()
	if path := cmd.String("config"); path != "" {
		config, err = backtest.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	dataPath := cmd.String("data")
	if config.Symbol == "" {
		config.Symbol = symbolFromPath(dataPath)
	}

	source, err := datasource.Open(dataPath, log)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	series, err := datasource.LoadSeries(ctx, source, config.Symbol, config.StartTime, config.EndTime)
	if err != nil {
		return nil, err
	}

	log.Info("Loaded price series",
		zap.String("path", dataPath),
		zap.String("symbol", config.Symbol),
		zap.Int("bars", series.Len()),
	)

	m := metrics.NewMetrics()

	engine, err := backtest.NewEngine(config, backtest.WithLogger(log), backtest.WithMetrics(m))
	if err != nil {
		return nil, err
	}

	return &session{
		config:  config,
		log:     log,
		metrics: m,
		series:  series,
		engine:  engine,
	}, nil
}

// finish persists results according to the output flags.
func (s *session) finish(cmd *cli.Command, runs []backtest.Result) error {
	defer s.log.Sync()

	for i := range runs {
		runs[i].Stats.DataPath = cmd.String("data")
	}

	var writers []results.ResultWriter
	if dir := cmd.String("results"); dir != "" {
		writers = append(writers, results.NewDuckDBWriter(dir))
	}

	if path := cmd.String("sqlite"); path != "" {
		writers = append(writers, results.NewSQLiteWriter(path))
	}

	for _, writer := range writers {
		paths, err := writeResults(writer, runs)
		if err != nil {
			return err
		}

		s.log.Info("Wrote results", zap.Strings("paths", paths))
	}

	if path := cmd.String("stats"); path != "" {
		if err := results.WriteStats(path, runs); err != nil {
			return err
		}
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := s.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

func writeResults(writer results.ResultWriter, runs []backtest.Result) ([]string, error) {
	if err := writer.Initialize(); err != nil {
		return nil, err
	}
	defer writer.Close()

	for _, run := range runs {
		if err := writer.Write(run); err != nil {
			return nil, err
		}
	}

	return writer.Finalize()
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	result, err := s.engine.Run(ctx, s.series)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, renderResult(result))

	return s.finish(cmd, []backtest.Result{result})
}

// symbolFromPath derives a symbol from data file names like SPY_2015-01-01_2020-01-01_1_day.parquet.
func symbolFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if symbol, _, found := strings.Cut(name, "_"); found {
		return symbol
	}

	return name
}
