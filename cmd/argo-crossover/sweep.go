package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func sweepAction(ctx context.Context, cmd *cli.Command) error {
	shorts, err := parsePeriods(cmd.StringSlice("short"))
	if err != nil {
		return fmt.Errorf("invalid --short: %w", err)
	}

	longs, err := parsePeriods(cmd.StringSlice("long"))
	if err != nil {
		return fmt.Errorf("invalid --long: %w", err)
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}

	total := len(shorts) * len(longs)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("Sweeping %s", s.config.Symbol)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(cmd.Root().ErrWriter),
	)

	sweep, err := s.engine.Sweep(ctx, s.series, shorts, longs, backtest.SweepOptions{
		Parallelism: int(cmd.Int("parallel")),
		OnProgress: func(done, _ int) {
			bar.Set(done)
		},
	})
	if err != nil {
		return err
	}

	bar.Finish()

	runs := make([]backtest.Result, 0, len(sweep))

	for _, combination := range sweep {
		if combination.Err != nil {
			s.log.Warn("Skipped combination",
				zap.Int("short_period", combination.ShortPeriod),
				zap.Int("long_period", combination.LongPeriod),
				zap.Error(combination.Err),
			)

			continue
		}

		runs = append(runs, *combination.Result)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Report.ProfitPercentage > runs[j].Report.ProfitPercentage
	})

	fmt.Fprintln(cmd.Root().Writer, renderSweep(sweep, runs))

	return s.finish(cmd, runs)
}

// parsePeriods accepts repeated flags and comma separated lists.
func parsePeriods(values []string) ([]int, error) {
	var periods []int

	for _, value := range values {
		for _, field := range strings.Split(value, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}

			period, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%q is not a period: %w", field, err)
			}

			if period <= 0 {
				return nil, fmt.Errorf("period %d must be positive", period)
			}

			periods = append(periods, period)
		}
	}

	if len(periods) == 0 {
		return nil, fmt.Errorf("at least one period is required")
	}

	return periods, nil
}
