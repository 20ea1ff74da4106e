package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	verdict "github.com/verdicthq/verdict-go"
	"github.com/verdicthq/verdict-go/flags"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Trigger a remote run, wait for its result and render it",
		Flags:  flags.Flags,
		Action: runAction,
	}
}

func runAction(cliCtx *cli.Context) error {
	logger, err := setupLogging(cliCtx)
	if err != nil {
		return verdict.NewRuntimeError(err)
	}

	cfg, err := verdict.NewConfig(cliCtx, logger,
		cliCtx.String(flags.Target.Name),
		cliCtx.String(flags.TargetID.Name))
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	// run is always one-shot, whatever the interval flag says
	cfg.RunOnce = true
	cfg.RunInterval = 0

	watcher, err := verdict.New(cliCtx.Context, cfg, Version, func(error) {})
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to create watcher: %w", err))
	}

	return watcher.Start(cliCtx.Context)
}
