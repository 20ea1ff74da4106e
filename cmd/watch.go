package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	verdict "github.com/verdicthq/verdict-go"
	"github.com/verdicthq/verdict-go/flags"
	"github.com/verdicthq/verdict-go/logging"
	"github.com/verdicthq/verdict-go/service"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Periodically trigger runs and report their results",
		Flags:  flags.Flags,
		Action: watchAction,
	}
}

func watchAction(cliCtx *cli.Context) error {
	logger, err := setupLogging(cliCtx)
	if err != nil {
		return verdict.NewRuntimeError(err)
	}

	// Tee logs into a file for long-lived sessions
	if logFile := cliCtx.String(flags.LogFile.Name); logFile != "" {
		fileSink, err := logging.NewAsyncWriter(logFile)
		if err != nil {
			return verdict.NewRuntimeError(fmt.Errorf("failed to open log file: %w", err))
		}
		defer fileSink.Close()

		logger, err = logging.NewLogger(io.MultiWriter(cliCtx.App.Writer, fileSink), logging.Config{
			Level:  cliCtx.String(flags.LogLevel.Name),
			Format: cliCtx.String(flags.LogFormat.Name),
			Color:  cliCtx.Bool(flags.LogColor.Name),
		})
		if err != nil {
			return verdict.NewRuntimeError(err)
		}
		logging.SetGlobalLogger(logger)
	}

	cfg, err := verdict.NewConfig(cliCtx, logger,
		cliCtx.String(flags.Target.Name),
		cliCtx.String(flags.TargetID.Name))
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	svc := service.New(service.Config{
		MetricsAddr:    net.JoinHostPort(cfg.MetricsAddr, strconv.Itoa(cfg.MetricsPort)),
		MetricsEnabled: cfg.MetricsEnabled,
	})
	svc.Start(cliCtx.Context)
	defer svc.Shutdown()

	errC := make(chan error, 1)
	watcher, err := verdict.New(cliCtx.Context, cfg, Version, func(err error) { errC <- err })
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to create watcher: %w", err))
	}

	if err := watcher.Start(cliCtx.Context); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}
	defer func() { _ = watcher.Stop(cliCtx.Context) }()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sigs:
			logger.Info("Received interrupt, shutting down")
			return nil
		case err := <-errC:
			return err
		case <-cliCtx.Context.Done():
			return nil
		}
	}
}
