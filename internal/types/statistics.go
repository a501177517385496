package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	// Count of completed long round trips.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of trades that closed above their entry price.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of trades that closed at or below their entry price.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate in percent. Zero when no trade completed.
	WinRate float64 `yaml:"win_rate"`
	// Largest peak-to-trough drop of the equity log, in percent.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

// StrategyInfo describes the crossover parameters that generated stats.
type StrategyInfo struct {
	ShortPeriod  int     `yaml:"short_period" json:"short_period"`
	LongPeriod   int     `yaml:"long_period" json:"long_period"`
	MAKind       MAKind  `yaml:"ma_kind" json:"ma_kind"`
	EMAMode      EMAMode `yaml:"ema_mode,omitempty" json:"ema_mode,omitempty"`
	RSIFilter    bool    `yaml:"rsi_filter" json:"rsi_filter"`
	RSIPeriod    int     `yaml:"rsi_period,omitempty" json:"rsi_period,omitempty"`
	RSIThreshold float64 `yaml:"rsi_threshold,omitempty" json:"rsi_threshold,omitempty"`
}

type RunStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the instrument.
	Symbol string `yaml:"symbol"`
	// Strategy holds the parameters of the run.
	Strategy StrategyInfo `yaml:"strategy" json:"strategy"`
	// Bars is the number of price bars fed to the run.
	Bars int `yaml:"bars"`
	// WarmUp is the number of leading bars skipped for undefined signals.
	WarmUp int `yaml:"warm_up"`
	// Result of all trades.
	TradeResult TradeResult `yaml:"trade_result"`
	// InitialCapital is the first equity value.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalCapital is the last realised equity value.
	FinalCapital float64 `yaml:"final_capital"`
	// ProfitPercentage is the realised return of the strategy in percent.
	ProfitPercentage float64 `yaml:"profit_percentage"`
	// SharpeRatio is the annualised Sharpe ratio of the tradable price returns. Nil when undefined.
	SharpeRatio *float64 `yaml:"sharpe_ratio"`
	// SharpeUndefinedReason explains a nil SharpeRatio.
	SharpeUndefinedReason string `yaml:"sharpe_undefined_reason,omitempty"`
	// BuyAndHoldPercentage is the return of holding from the first tradable bar to the last.
	BuyAndHoldPercentage float64 `yaml:"buy_and_hold_percentage"`
	// OpenPosition is set when a long position was still open at the end of the series.
	OpenPosition bool `yaml:"open_position"`
	// DataPath is the path to the price data used for this backtest.
	DataPath string `yaml:"data_path,omitempty" json:"data_path,omitempty"`
}

func WriteRunStats(path string, stats []RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}

// ReadRunStats loads stats previously written by WriteRunStats.
func ReadRunStats(path string) ([]RunStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run stats file: %w", err)
	}

	var stats []RunStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run stats: %w", err)
	}

	return stats, nil
}
