package types

import "time"

// Position is the simulated holding of the instrument.
type Position string

const (
	PositionFlat Position = "flat"
	PositionLong Position = "long"
)

// Transition is what the position state machine did on a bar.
type Transition string

const (
	TransitionNone      Transition = "none"
	TransitionEnterLong Transition = "enter_long"
	TransitionExitLong  Transition = "exit_long"
	// TransitionForcedExit closes a position left open at the end of the series.
	TransitionForcedExit Transition = "forced_exit"
)

// IsExit reports whether the transition realises a trade.
func (t Transition) IsExit() bool {
	return t == TransitionExitLong || t == TransitionForcedExit
}

// Trade is a completed long round trip.
type Trade struct {
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price"`
	// Multiple is ExitPrice / EntryPrice.
	Multiple float64 `yaml:"multiple" json:"multiple"`
	// Forced is set when the trade was closed by the end-of-series policy.
	Forced bool `yaml:"forced" json:"forced"`
}

// IsWin reports whether the trade grew capital.
func (t Trade) IsWin() bool {
	return t.Multiple > 1
}
