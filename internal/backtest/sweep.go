package backtest

import (
	"context"
	"runtime"
	"sync"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// SweepResult is the outcome of one parameter combination.
type SweepResult struct {
	ShortPeriod int
	LongPeriod  int
	// Result is nil when Err is set.
	Result *Result
	// Err holds per-combination failures that do not abort the sweep: insufficient
	// data and invalid parameters.
	Err error
}

// SweepOptions configures a sweep.
type SweepOptions struct {
	// Parallelism bounds the concurrent runs. Defaults to GOMAXPROCS.
	Parallelism int
	// OnProgress is called after each combination with the number finished so far.
	OnProgress func(done, total int)
}

// Sweep runs the engine configuration for every short x long combination over series.
// Results are returned in combination order, shorts outermost. Combinations that fail
// with insufficient data or invalid parameters are reported in their SweepResult; any
// other failure cancels the sweep and is returned.
func (e *Engine) Sweep(ctx context.Context, series types.PriceSeries, shorts, longs []int, options SweepOptions) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(shorts)*len(longs))
	for _, short := range shorts {
		for _, long := range longs {
			results = append(results, SweepResult{ShortPeriod: short, LongPeriod: long, Result: nil, Err: nil})
		}
	}

	parallelism := options.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	var (
		mu   sync.Mutex
		done int
	)

	for i := range results {
		g.Go(func() error {
			result, err := e.runCombination(ctx, series, results[i].ShortPeriod, results[i].LongPeriod)
			if err != nil && !isCombinationError(err) {
				return err
			}

			results[i].Result = result
			results[i].Err = err

			if options.OnProgress != nil {
				mu.Lock()
				done++
				options.OnProgress(done, len(results))
				mu.Unlock()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (e *Engine) runCombination(ctx context.Context, series types.PriceSeries, short, long int) (*Result, error) {
	engine, err := NewEngine(e.config.WithPeriods(short, long),
		WithLogger(e.log), WithMetrics(e.metrics), WithClock(e.now))
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx, series)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func isCombinationError(err error) bool {
	return errors.IsInsufficientDataError(err) ||
		errors.HasCode(err, errors.ErrCodeBacktestConfigError) ||
		errors.HasCode(err, errors.ErrCodeInvalidPeriod)
}
