package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-crossover/internal/backtest"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for summary keys.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(18)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// SuccessStyle for completed actions.
	SuccessStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames a summary.
	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// FormatPercentWithSign formats a percentage with an indicator for gains and losses.
func FormatPercentWithSign(value float64) string {
	formatted := fmt.Sprintf("%.2f%%", value)

	if value > 0 {
		return formatted + " ▲"
	} else if value < 0 {
		return formatted + " ▼"
	}

	return formatted
}

func renderResult(result backtest.Result) string {
	stats := result.Stats

	sharpe := HelpStyle.Render("undefined (" + stats.SharpeUndefinedReason + ")")
	if stats.SharpeRatio != nil {
		sharpe = fmt.Sprintf("%.4f", *stats.SharpeRatio)
	}

	rows := [][2]string{
		{"Symbol", stats.Symbol},
		{"Strategy", result.Config.Name()},
		{"Bars", fmt.Sprintf("%d (warm-up %d)", stats.Bars, stats.WarmUp)},
		{"Trades", fmt.Sprintf("%d (%d won, %.1f%%)", stats.TradeResult.NumberOfTrades,
			stats.TradeResult.NumberOfWinningTrades, stats.TradeResult.WinRate)},
		{"Final capital", fmt.Sprintf("%.2f", stats.FinalCapital)},
		{"Profit", FormatPercentWithSign(stats.ProfitPercentage)},
		{"Buy and hold", FormatPercentWithSign(stats.BuyAndHoldPercentage)},
		{"Max drawdown", fmt.Sprintf("%.2f%%", stats.TradeResult.MaxDrawdown)},
		{"Sharpe ratio", sharpe},
	}

	if stats.OpenPosition {
		rows = append(rows, [2]string{"Open position", "yes"})
	}

	lines := []string{TitleStyle.Render("Backtest " + stats.ID)}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(row[0]), row[1]))
	}

	return BoxStyle.Render(strings.Join(lines, "\n"))
}

// renderSweep lists successful runs best first followed by skipped combinations.
func renderSweep(sweep []backtest.SweepResult, runs []backtest.Result) string {
	lines := []string{TitleStyle.Render(fmt.Sprintf("Sweep: %d of %d combinations ran", len(runs), len(sweep)))}

	lines = append(lines, HelpStyle.Render(fmt.Sprintf("%6s %6s %8s %12s %12s", "short", "long", "trades", "profit", "drawdown")))
	for _, run := range runs {
		lines = append(lines, fmt.Sprintf("%6d %6d %8d %12s %11.2f%%",
			run.Config.ShortPeriod,
			run.Config.LongPeriod,
			run.Stats.TradeResult.NumberOfTrades,
			fmt.Sprintf("%.2f%%", run.Report.ProfitPercentage),
			run.Report.MaxDrawdown,
		))
	}

	for _, combination := range sweep {
		if combination.Err != nil {
			lines = append(lines, HelpStyle.Render(fmt.Sprintf("%6d %6d skipped: %v",
				combination.ShortPeriod, combination.LongPeriod, combination.Err)))
		}
	}

	return BoxStyle.Render(strings.Join(lines, "\n"))
}
