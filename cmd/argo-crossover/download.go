package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-crossover/pkg/marketdata"
	"github.com/rxtech-lab/argo-crossover/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// downloadAction fetches daily history from the provider and writes it as parquet.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	ticker := cmd.String("ticker")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	providerFlag := cmd.String("provider")

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(cmd.Root().ErrWriter),
	)

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(providerFlag),
		DataPath:      cmd.String("out"),
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
	}, func(current, _ float64, _ string) {
		bar.Set(int(current))
	})
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	path, err := client.Download(ctx, marketdata.DownloadParams{
		Ticker:    ticker,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	bar.Finish()
	fmt.Fprintln(cmd.Root().Writer, SuccessStyle.Render("Saved "+path))

	return nil
}
