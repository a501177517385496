package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/backtest"
	"github.com/urfave/cli/v3"
)

func schemaAction(_ context.Context, cmd *cli.Command) error {
	config := backtest.EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, schema)

	return nil
}
