package backtest

import (
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// EquityLog is the realised capital after each completed trade, seeded with the
// initial capital.
type EquityLog []float64

// EquityTracker compounds capital over completed trades.
type EquityTracker struct {
	capital float64
	log     EquityLog
}

// NewEquityTracker seeds a tracker with the initial capital, which must be positive.
func NewEquityTracker(initialCapital float64) (*EquityTracker, error) {
	if !(initialCapital > 0) {
		return nil, errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must be positive, got %v", initialCapital)
	}

	return &EquityTracker{
		capital: initialCapital,
		log:     EquityLog{initialCapital},
	}, nil
}

// Close realises a round trip, multiplying capital by exit/entry and appending the
// new capital to the log. A zero entry price appends nothing.
func (t *EquityTracker) Close(entry, exit float64) (float64, error) {
	if entry == 0 {
		return t.capital, errors.New(errors.ErrCodeDivisionByZero, "cannot close trade with zero entry price")
	}

	t.capital *= exit / entry
	t.log = append(t.log, t.capital)

	return t.capital, nil
}

// Capital returns the current realised capital.
func (t *EquityTracker) Capital() float64 {
	return t.capital
}

// Log returns a copy of the equity log.
func (t *EquityTracker) Log() EquityLog {
	copied := make(EquityLog, len(t.log))
	copy(copied, t.log)

	return copied
}
