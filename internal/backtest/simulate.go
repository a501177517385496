package backtest

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// SimulateOptions tunes a simulation beyond the entry filter switch.
type SimulateOptions struct {
	UseRSIFilter bool
	// RSIThreshold defaults to strategy.DefaultRSIThreshold when zero.
	RSIThreshold float64
	// CloseOpenPositionAtEnd realises a position still open on the last tradable bar
	// at that bar's price. When false the position stays unrealised and is only
	// reported through Simulation.OpenPosition.
	CloseOpenPositionAtEnd bool
}

// Simulation is the outcome of replaying a signal series.
type Simulation struct {
	Equity EquityLog
	Trades []types.Trade
	// Events holds every non-none transition in bar order.
	Events []strategy.Event
	// OpenPosition is the state after the last bar when a position was left open.
	OpenPosition *strategy.State
	// WarmUp is the number of leading bars that were skipped.
	WarmUp int
}

// Simulate replays signals from a flat position and returns the equity log.
func Simulate(signals types.SignalSeries, initialCapital float64, useRSIFilter bool) (EquityLog, error) {
	simulation, err := SimulateWithOptions(signals, initialCapital, SimulateOptions{
		UseRSIFilter:           useRSIFilter,
		RSIThreshold:           strategy.DefaultRSIThreshold,
		CloseOpenPositionAtEnd: false,
	})
	if err != nil {
		return nil, err
	}

	return simulation.Equity, nil
}

// SimulateWithOptions replays the tradable bars of signals through the position state
// machine. Every call starts from a fresh state, so equal inputs give equal outputs.
func SimulateWithOptions(signals types.SignalSeries, initialCapital float64, options SimulateOptions) (Simulation, error) {
	if options.UseRSIFilter && !signals.HasRSI() {
		return Simulation{}, errors.New(errors.ErrCodeInvalidParameter,
			"rsi filter requested but the signal series has no rsi column")
	}

	tracker, err := NewEquityTracker(initialCapital)
	if err != nil {
		return Simulation{}, err
	}

	rules := strategy.Rules{
		UseRSIFilter: options.UseRSIFilter,
		RSIThreshold: options.RSIThreshold,
	}
	if rules.RSIThreshold == 0 {
		rules.RSIThreshold = strategy.DefaultRSIThreshold
	}

	simulation := Simulation{
		Equity:       nil,
		Trades:       []types.Trade{},
		Events:       []strategy.Event{},
		OpenPosition: nil,
		WarmUp:       signals.WarmUp(),
	}

	bars := signals.Tradable()
	state := strategy.InitialState()

	record := func(event strategy.Event) error {
		if event.Transition == types.TransitionNone {
			return nil
		}

		simulation.Events = append(simulation.Events, event)

		if event.Trade == nil {
			return nil
		}

		if _, err := tracker.Close(event.Trade.EntryPrice, event.Trade.ExitPrice); err != nil {
			return err
		}

		simulation.Trades = append(simulation.Trades, *event.Trade)

		return nil
	}

	for i, bar := range bars {
		var event strategy.Event

		state, event, err = strategy.Step(state, bar, rules)
		if err != nil {
			return Simulation{}, fmt.Errorf("bar %d: %w", simulation.WarmUp+i, err)
		}

		if err := record(event); err != nil {
			return Simulation{}, err
		}
	}

	if state.IsLong() && options.CloseOpenPositionAtEnd {
		var event strategy.Event

		state, event, err = strategy.ForceExit(state, bars[len(bars)-1])
		if err != nil {
			return Simulation{}, err
		}

		if err := record(event); err != nil {
			return Simulation{}, err
		}
	}

	if state.IsLong() {
		open := state
		simulation.OpenPosition = &open
	}

	simulation.Equity = tracker.Log()

	return simulation, nil
}
