package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	// Flags shared by run and sweep
	backtestFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the backtest config `FILE` (YAML). Defaults are used when omitted",
		},
		&cli.StringFlag{
			Name:     "data",
			Aliases:  []string{"d"},
			Usage:    "Path to the price data `FILE` (.parquet or .csv)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "results",
			Usage: "Export signals, equity and trades as parquet files into `DIR`",
		},
		&cli.StringFlag{
			Name:  "sqlite",
			Usage: "Store results in the SQLite database `FILE`",
		},
		&cli.StringFlag{
			Name:  "stats",
			Usage: "Write run statistics as YAML to `FILE`",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics in textfile format to `FILE`",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
			Value: "warn",
		},
	}

	return &cli.Command{
		Name:    "argo-crossover",
		Usage:   "Backtest moving-average crossover strategies",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a single backtest",
				Flags:  backtestFlags,
				Action: runAction,
			},
			{
				Name:  "sweep",
				Usage: "Run a backtest for every short x long period combination",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:     "short",
						Usage:    "Short periods, e.g. 10,20,30",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "long",
						Usage:    "Long periods, e.g. 50,100,200",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "parallel",
						Usage: "Maximum concurrent runs. Defaults to the number of CPUs",
					},
				}, backtestFlags...),
				Action: sweepAction,
			},
			{
				Name:  "download",
				Usage: "Download daily price history as parquet",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "ticker",
						Aliases:  []string{"t"},
						Usage:    "Stock ticker symbol",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "start",
						Aliases: []string{"s"},
						Usage:   "Start date in `YYYY-MM-DD` format",
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
						Required: true,
					},
					&cli.TimestampFlag{
						Name:    "end",
						Aliases: []string{"e"},
						Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
						Value:   time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:    "provider",
						Aliases: []string{"p"},
						Usage:   fmt.Sprintf("Data provider to use (e.g., %s)", provider.ProviderPolygon),
						Value:   string(provider.ProviderPolygon),
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Path to the data output directory",
						Value:   "data",
					},
				},
				Action: downloadAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the backtest config",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
