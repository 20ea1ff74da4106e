package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	verdict "github.com/verdicthq/verdict-go"
	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/flags"
	"github.com/verdicthq/verdict-go/ui"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show the live status of a run",
		ArgsUsage: "<run-id>",
		Flags:     append(append([]cli.Flag{}, flags.APIFlags...), flags.LogFlags...),
		Action:    statusAction,
	}
}

func statusAction(cliCtx *cli.Context) error {
	if _, err := setupLogging(cliCtx); err != nil {
		return verdict.NewRuntimeError(err)
	}

	runID := cliCtx.Args().First()
	if runID == "" {
		return verdict.NewRuntimeError(errors.New("run id argument is required"))
	}

	client := api.NewRuntimeClient(
		cliCtx.String(flags.APIBaseURL.Name),
		cliCtx.String(flags.APIKey.Name))

	status, err := client.GetRunStatus(cliCtx.Context, runID)
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to fetch run status: %w", err))
	}

	ui.PrintRunStatusTable(cliCtx.App.Writer, status)
	return nil
}
