package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/metrics"
	"github.com/rxtech-lab/argo-crossover/internal/performance"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// Result is everything a run produced.
type Result struct {
	ID        string
	Timestamp time.Time
	Config    Config
	Signals   types.SignalSeries
	Simulation
	Report performance.Report
	// SharpeError is set when the Sharpe ratio is undefined for the series.
	SharpeError error
	// BuyAndHoldPercentage is the return of holding over the tradable bars.
	BuyAndHoldPercentage float64
	Stats                types.RunStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock replaces the clock used to timestamp runs.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine runs one configured crossover backtest over price series. It holds no state
// between runs and is safe for concurrent use.
type Engine struct {
	config  Config
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewEngine validates config and creates an engine for it.
func NewEngine(config Config, options ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  config,
		log:     logger.NewNopLogger(),
		metrics: nil,
		now:     time.Now,
	}

	for _, option := range options {
		option(engine)
	}

	return engine, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run computes signals for series, simulates them and analyses the equity log.
// Missing prices are dropped and the configured time range is applied first.
func (e *Engine) Run(ctx context.Context, series types.PriceSeries) (Result, error) {
	result, err := e.run(ctx, series)
	if e.metrics != nil {
		if err != nil {
			e.metrics.ObserveFailure()
		} else {
			e.metrics.ObserveRun(len(result.Trades), result.Report.ProfitPercentage)
		}
	}

	if err != nil {
		e.log.Error("Backtest run failed",
			zap.String("symbol", series.Symbol()),
			zap.String("strategy", e.config.Name()),
			zap.Error(err),
		)
	}

	return result, err
}

func (e *Engine) run(ctx context.Context, series types.PriceSeries) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	series, err := e.window(series.DropMissing())
	if err != nil {
		return Result{}, err
	}

	signals, err := indicator.ComputeSignals(series, e.config.SignalConfig())
	if err != nil {
		return Result{}, err
	}

	e.log.Debug("Computed signals",
		zap.String("symbol", series.Symbol()),
		zap.Int("bars", signals.Len()),
		zap.Int("warm_up", signals.WarmUp()),
	)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	simulation, err := SimulateWithOptions(signals, e.config.InitialCapital, e.config.SimulateOptions())
	if err != nil {
		return Result{}, err
	}

	for _, event := range simulation.Events {
		e.log.Debug("Position transition",
			zap.String("transition", string(event.Transition)),
			zap.Time("time", event.Time),
			zap.Float64("price", event.Price),
		)
	}

	tradable := series.From(signals.WarmUp())

	report, err := Analyze(simulation.Equity, tradable)

	var sharpeErr error

	if err != nil {
		if !errors.IsDegenerateStatisticsError(err) {
			return Result{}, err
		}

		sharpeErr = err
	}

	buyAndHold := 0.0
	if tradable.Len() > 0 {
		buyAndHold, err = performance.BuyAndHoldPercentage(tradable.Prices())
		if err != nil {
			return Result{}, err
		}
	}

	result := Result{
		ID:                   uuid.New().String(),
		Timestamp:            e.now(),
		Config:               e.config,
		Signals:              signals,
		Simulation:           simulation,
		Report:               report,
		SharpeError:          sharpeErr,
		BuyAndHoldPercentage: buyAndHold,
		Stats:                types.RunStats{},
	}
	result.Stats = e.stats(result, series)

	e.log.Info("Backtest run finished",
		zap.String("id", result.ID),
		zap.String("symbol", series.Symbol()),
		zap.String("strategy", e.config.Name()),
		zap.Int("trades", len(simulation.Trades)),
		zap.Float64("capital", report.FinalCapital),
		zap.Float64("profit_percentage", report.ProfitPercentage),
	)

	return result, nil
}

// window keeps the bars inside the configured start and end times, both inclusive.
func (e *Engine) window(series types.PriceSeries) (types.PriceSeries, error) {
	if e.config.StartTime.IsNone() && e.config.EndTime.IsNone() {
		return series, nil
	}

	bars := make([]types.PriceBar, 0, series.Len())

	for _, bar := range series.Bars() {
		if e.config.StartTime.IsSome() && bar.Time.Before(e.config.StartTime.Unwrap()) {
			continue
		}

		if e.config.EndTime.IsSome() && bar.Time.After(e.config.EndTime.Unwrap()) {
			continue
		}

		bars = append(bars, bar)
	}

	return types.NewPriceSeries(series.Symbol(), bars)
}

func (e *Engine) stats(result Result, series types.PriceSeries) types.RunStats {
	wins := 0

	for _, trade := range result.Trades {
		if trade.IsWin() {
			wins++
		}
	}

	winRate := 0.0
	if len(result.Trades) > 0 {
		winRate = float64(wins) / float64(len(result.Trades)) * 100
	}

	var sharpe *float64

	reason := ""

	if result.Report.Sharpe.IsSome() {
		value := result.Report.Sharpe.Unwrap()
		sharpe = &value
	} else if result.SharpeError != nil {
		reason = result.SharpeError.Error()
	}

	symbol := series.Symbol()
	if symbol == "" {
		symbol = e.config.Symbol
	}

	return types.RunStats{
		ID:        result.ID,
		Timestamp: result.Timestamp,
		Symbol:    symbol,
		Strategy: types.StrategyInfo{
			ShortPeriod:  e.config.ShortPeriod,
			LongPeriod:   e.config.LongPeriod,
			MAKind:       e.config.MAKind,
			EMAMode:      emaMode(e.config),
			RSIFilter:    e.config.UseRSIFilter,
			RSIPeriod:    rsiPeriod(e.config),
			RSIThreshold: rsiThreshold(e.config),
		},
		Bars:   series.Len(),
		WarmUp: result.Signals.WarmUp(),
		TradeResult: types.TradeResult{
			NumberOfTrades:        len(result.Trades),
			NumberOfWinningTrades: wins,
			NumberOfLosingTrades:  len(result.Trades) - wins,
			WinRate:               winRate,
			MaxDrawdown:           result.Report.MaxDrawdown,
		},
		InitialCapital:        e.config.InitialCapital,
		FinalCapital:          result.Report.FinalCapital,
		ProfitPercentage:      result.Report.ProfitPercentage,
		SharpeRatio:           sharpe,
		SharpeUndefinedReason: reason,
		BuyAndHoldPercentage:  result.BuyAndHoldPercentage,
		OpenPosition:          result.OpenPosition != nil,
		DataPath:              "",
	}
}

func emaMode(config Config) types.EMAMode {
	if config.MAKind != types.MAKindExponential {
		return ""
	}

	return config.EMAMode
}

func rsiPeriod(config Config) int {
	if !config.UseRSIFilter {
		return 0
	}

	return config.RSIPeriod
}

func rsiThreshold(config Config) float64 {
	if !config.UseRSIFilter {
		return 0
	}

	return config.RSIThreshold
}

// String summarises the result on one line.
func (r Result) String() string {
	sharpe := "undefined"
	if r.Report.Sharpe.IsSome() {
		sharpe = fmt.Sprintf("%.2f", r.Report.Sharpe.Unwrap())
	}

	return fmt.Sprintf("%s %s: %d trades, profit %.2f%%, sharpe %s",
		r.Stats.Symbol, r.Config.Name(), len(r.Trades), r.Report.ProfitPercentage, sharpe)
}
