// Package strategy holds the long/flat position state machine of the moving-average
// crossover strategy. The machine is a pure step function over an explicit State so a
// single transition can be evaluated without replaying a series.
package strategy

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// DefaultRSIThreshold is the oversold level below which the RSI filter allows entries.
const DefaultRSIThreshold = 30.0

// Rules configures the entry filter.
type Rules struct {
	// UseRSIFilter only allows entries while the RSI is below RSIThreshold.
	UseRSIFilter bool
	RSIThreshold float64
}

// DefaultRules returns the rules without a filter and the default threshold.
func DefaultRules() Rules {
	return Rules{
		UseRSIFilter: false,
		RSIThreshold: DefaultRSIThreshold,
	}
}

// State is everything the machine carries between bars.
type State struct {
	Position   types.Position
	EntryPrice float64
	EntryTime  time.Time
}

// InitialState returns the flat state every run starts from.
func InitialState() State {
	return State{
		Position:   types.PositionFlat,
		EntryPrice: 0,
		EntryTime:  time.Time{},
	}
}

// IsLong reports whether a position is open.
func (s State) IsLong() bool {
	return s.Position == types.PositionLong
}

// Event is the outcome of one bar.
type Event struct {
	Transition types.Transition
	Time       time.Time
	Price      float64
	// Trade is set on exits.
	Trade *types.Trade
}

// Step evaluates one bar against the current state:
//
//	flat -> long when short > long and (no filter or rsi < threshold); records the entry price
//	long -> flat when short < long; emits the completed trade
//
// Equal averages never transition. The RSI filter gates entries only.
// Bars with undefined signals are rejected.
func Step(state State, bar types.SignalBar, rules Rules) (State, Event, error) {
	if !bar.Defined(rules.UseRSIFilter) {
		return state, Event{}, errors.Newf(errors.ErrCodeUndefinedSignal,
			"undefined signal at %s: short=%v long=%v rsi=%v",
			bar.Time.Format(time.RFC3339), bar.ShortMA, bar.LongMA, bar.RSI)
	}

	none := Event{Transition: types.TransitionNone, Time: bar.Time, Price: bar.Price, Trade: nil}

	switch state.Position {
	case types.PositionLong:
		if bar.ShortMA < bar.LongMA {
			return exit(state, bar, types.TransitionExitLong)
		}

		return state, none, nil
	case types.PositionFlat:
		if bar.ShortMA > bar.LongMA && (!rules.UseRSIFilter || bar.RSI < rules.RSIThreshold) {
			next := State{
				Position:   types.PositionLong,
				EntryPrice: bar.Price,
				EntryTime:  bar.Time,
			}

			return next, Event{Transition: types.TransitionEnterLong, Time: bar.Time, Price: bar.Price, Trade: nil}, nil
		}

		return state, none, nil
	default:
		return state, Event{}, errors.Newf(errors.ErrCodeSimulationStateBroken, "unknown position %q", state.Position)
	}
}

// ForceExit closes an open position at the bar's price regardless of the signals.
// A flat state is returned unchanged with a none event.
func ForceExit(state State, bar types.SignalBar) (State, Event, error) {
	if !state.IsLong() {
		return state, Event{Transition: types.TransitionNone, Time: bar.Time, Price: bar.Price, Trade: nil}, nil
	}

	return exit(state, bar, types.TransitionForcedExit)
}

func exit(state State, bar types.SignalBar, transition types.Transition) (State, Event, error) {
	if state.EntryPrice == 0 {
		return state, Event{}, errors.Newf(errors.ErrCodeDivisionByZero,
			"cannot close position opened at %s: entry price is zero", state.EntryTime.Format(time.RFC3339))
	}

	trade := types.Trade{
		EntryTime:  state.EntryTime,
		EntryPrice: state.EntryPrice,
		ExitTime:   bar.Time,
		ExitPrice:  bar.Price,
		Multiple:   bar.Price / state.EntryPrice,
		Forced:     transition == types.TransitionForcedExit,
	}

	return InitialState(), Event{Transition: transition, Time: bar.Time, Price: bar.Price, Trade: &trade}, nil
}

// Name builds a readable identifier for a parameter set, e.g. "EMA_Cross_30_100_RSI30".
func Name(config types.SignalConfig, rules Rules) string {
	var b strings.Builder

	b.WriteString(strings.ToUpper(string(config.MAKind)))

	if config.MAKind == types.MAKindExponential && config.EMAMode == types.EMAModeAdjusted {
		b.WriteString("adj")
	}

	fmt.Fprintf(&b, "_Cross_%d_%d", config.ShortPeriod, config.LongPeriod)

	if rules.UseRSIFilter {
		fmt.Fprintf(&b, "_RSI%s", formatThreshold(rules.RSIThreshold))
	}

	return b.String()
}

func formatThreshold(threshold float64) string {
	if threshold == math.Trunc(threshold) {
		return fmt.Sprintf("%d", int(threshold))
	}

	return fmt.Sprintf("%g", threshold)
}
