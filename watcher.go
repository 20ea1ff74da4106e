package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/exitcodes"
	"github.com/verdicthq/verdict-go/flags"
	"github.com/verdicthq/verdict-go/metrics"
	"github.com/verdicthq/verdict-go/result"
	"github.com/verdicthq/verdict-go/ui"
)

// RunOutcome is the decoded remote result document: the run tree plus the
// backend-computed overall status.
type RunOutcome struct {
	result.Run
	Status result.Status `json:"status,omitempty"`
}

// FinalStatus returns the backend-computed status, falling back to the
// suite rollup when the document carries none.
func (o *RunOutcome) FinalStatus() result.Status {
	if o.Status != "" {
		return o.Status
	}
	return o.Run.Status()
}

func (o *RunOutcome) String() string {
	return fmt.Sprintf("Run %s finished %s in %.1fs", o.RunID, o.FinalStatus(), float64(o.Duration)/1000)
}

// Watcher triggers remote runs and reports their results.
type Watcher struct {
	ctx       context.Context
	config    *Config
	version   string
	runtime   *api.RuntimeClient
	results   *api.ResultClient
	outcome   *RunOutcome
	scheduler Scheduler

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Watcher, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating watcher with config",
		"target", config.Target,
		"targetId", config.TargetID,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	return &Watcher{
		ctx:              ctx,
		config:           config,
		version:          version,
		runtime:          api.NewRuntimeClient(config.APIBaseURL, config.APIKey),
		results:          api.NewResultClient(config.APIBaseURL, config.APIKey),
		scheduler:        NewDefaultScheduler(config.RunInterval, config.RunOnce, config.Log),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start triggers runs periodically at the configured interval, or exactly
// once in run-once mode.
func (w *Watcher) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			w.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	w.ctx = ctx
	w.scheduler.RegisterCallback(w.runTarget)

	if err := w.scheduler.Start(ctx); err != nil {
		// For runtime errors (unreachable API, malformed responses), return exit code 2
		w.config.Log.Error("Runtime error triggering run", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	// If in run-once mode, trigger shutdown and return
	if w.config.RunOnce {
		w.config.Log.Info("Run completed, exiting (run-once mode)")

		// Check if the run failed and return the appropriate exit code
		if w.outcome != nil && w.outcome.FinalStatus() == result.StatusFailed {
			w.config.Log.Warn("Run-once run completed with failures, returning exit code 1")
			return NewTestFailureError(w.outcome.String())
		}

		// Only need to call this when we're in run-once mode and the run passed
		go func() {
			w.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	w.config.Log.Debug("verdict watcher started successfully")
	return nil
}

// runTarget triggers one remote run, waits for its result and renders it.
func (w *Watcher) runTarget() error {
	w.config.Log.Info("Triggering run", "target", w.config.Target, "id", w.config.TargetID)
	started := time.Now()

	runID, err := w.trigger(w.ctx)
	if err != nil {
		// This is a runtime error (not a test failure)
		w.config.Log.Error("Runtime error triggering run", "error", err)
		return NewRuntimeError(err)
	}
	metrics.RecordRunTriggered(string(w.config.Target))
	w.config.Log.Info("Run triggered", "run_id", runID)

	raw, err := w.results.GetResultByRunID(w.ctx, runID)
	if err != nil {
		w.config.Log.Error("Runtime error fetching run result", "error", err)
		return NewRuntimeError(err)
	}

	outcome := &RunOutcome{}
	if err := json.Unmarshal(raw, outcome); err != nil {
		return NewRuntimeError(fmt.Errorf("failed to decode result document: %w", err))
	}
	if outcome.RunID == "" {
		outcome.RunID = runID
	}
	w.outcome = outcome

	status := outcome.FinalStatus()
	ui.PrintResultTable(os.Stdout, &outcome.Run, status)
	fmt.Println(outcome.String())

	if w.config.ArtifactDir != "" {
		path, err := w.saveOutcome(raw)
		metrics.RecordArtifactWrite(err == nil)
		if err != nil {
			// The run itself finished; a failed local copy is not fatal
			w.config.Log.Error("Failed to write result document", "error", err)
		} else {
			w.config.Log.Info("Result document written", "path", path)
		}
	}

	metrics.RecordRunCompleted(string(w.config.Target), string(status), time.Since(started))
	w.config.Log.Info("Run completed", "run_id", runID, "status", status)
	return nil
}

// saveOutcome writes the fetched result document into the configured artifact
// directory, pretty-printed the same way the SDK artifact is.
func (w *Watcher) saveOutcome(doc json.RawMessage) (string, error) {
	if err := os.MkdirAll(w.config.ArtifactDir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return "", fmt.Errorf("formatting result document: %w", err)
	}
	path := filepath.Join(w.config.ArtifactDir, result.ArtifactFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing result document: %w", err)
	}
	return path, nil
}

// trigger starts the configured target and returns the new run id.
func (w *Watcher) trigger(ctx context.Context) (string, error) {
	switch w.config.Target {
	case flags.TargetCase:
		id, err := strconv.Atoi(w.config.TargetID)
		if err != nil {
			return "", fmt.Errorf("invalid case id %q: %w", w.config.TargetID, err)
		}
		return w.runtime.RunCase(ctx, id, w.config.RunOptions)
	case flags.TargetSuite:
		id, err := strconv.Atoi(w.config.TargetID)
		if err != nil {
			return "", fmt.Errorf("invalid suite id %q: %w", w.config.TargetID, err)
		}
		return w.runtime.RunSuite(ctx, id, w.config.RunOptions)
	case flags.TargetMonitor:
		return w.runtime.RunMonitor(ctx, w.config.TargetID, w.config.RunOptions)
	default:
		return "", fmt.Errorf("unsupported target type: %s", w.config.Target)
	}
}

// Stop stops the watcher service.
func (w *Watcher) Stop(ctx context.Context) error {
	w.config.Log.Info("Stopping verdict watcher")

	if err := w.scheduler.Stop(); err != nil {
		return err
	}

	w.config.Log.Info("verdict watcher stopped successfully")
	return nil
}

// Stopped returns true if the watcher service is stopped.
func (w *Watcher) Stopped() bool {
	return w.scheduler.Stopped()
}

// Outcome returns the result of the most recent run, or nil before the first
// run completes.
func (w *Watcher) Outcome() *RunOutcome {
	return w.outcome
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (w *Watcher) WaitForShutdown(ctx context.Context) error {
	return w.scheduler.WaitForShutdown(ctx)
}
