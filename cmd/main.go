package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	verdict "github.com/verdicthq/verdict-go"
	"github.com/verdicthq/verdict-go/exitcodes"
	"github.com/verdicthq/verdict-go/flags"
	"github.com/verdicthq/verdict-go/logging"
)

var (
	Version   = "v0.5.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := newApp()

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer otelShutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "verdictctl"
	app.Usage = "Verdict platform operations CLI"
	app.Description = "verdictctl triggers remote runs, reports their results and manages project artifacts"
	app.Commands = []*cli.Command{
		runCommand(),
		statusCommand(),
		uploadCommand(),
		watchCommand(),
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
			return
		}
		cli.HandleExitCoder(cli.Exit(err.Error(), exitCodeFor(err)))
	}
	return app
}

// exitCodeFor maps typed errors onto process exit codes.
func exitCodeFor(err error) int {
	switch {
	case verdict.IsRuntimeError(err):
		return exitcodes.RuntimeErr
	case verdict.IsTestFailureError(err):
		return exitcodes.TestFailure
	default:
		// Unspecified errors default to the test-failure code
		return exitcodes.TestFailure
	}
}

// setupLogging builds the command logger from the log flags and installs it
// as the process default.
func setupLogging(cliCtx *cli.Context) (log.Logger, error) {
	logger, err := logging.NewLogger(cliCtx.App.Writer, logging.Config{
		Level:  cliCtx.String(flags.LogLevel.Name),
		Format: cliCtx.String(flags.LogFormat.Name),
		Color:  cliCtx.Bool(flags.LogColor.Name),
	})
	if err != nil {
		return nil, err
	}
	logging.SetGlobalLogger(logger)
	return logger, nil
}
