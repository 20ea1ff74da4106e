package verdict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/exitcodes"
	"github.com/verdicthq/verdict-go/flags"
	"github.com/verdicthq/verdict-go/result"
)

// fakeRunAPI is a fake reporting backend that counts triggers and provides
// synchronization
type fakeRunAPI struct {
	server        *httptest.Server
	runID         string
	document      string
	triggerStatus int          // non-zero forces an HTTP error on trigger
	triggerCount  atomic.Int32 // Count of trigger requests
	triggerCh     chan struct{}
}

// newFakeRunAPI creates a fake backend with trigger tracking
func newFakeRunAPI(t *testing.T) *fakeRunAPI {
	t.Helper()

	f := &fakeRunAPI{
		runID:     "run-7",
		document:  `{"runId":"run-7","duration":1200,"status":"PASSED","suites":[]}`,
		triggerCh: make(chan struct{}, 100), // Buffer to prevent blocking
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cases/api/case/", f.handleTrigger)
	mux.HandleFunc("/suites/api/suite/", f.handleTrigger)
	mux.HandleFunc("/monitors/api/monitor/", f.handleTrigger)
	mux.HandleFunc("/results/api/results/run/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.document)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRunAPI) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if f.triggerStatus != 0 {
		w.WriteHeader(f.triggerStatus)
		fmt.Fprint(w, `{"message":"trigger refused"}`)
		return
	}

	f.triggerCount.Add(1)

	// Signal that a trigger has happened
	select {
	case f.triggerCh <- struct{}{}:
	default:
		// Non-blocking send, just in case no one is listening
	}

	fmt.Fprintf(w, `{"id":%q}`, f.runID)
}

// waitForTriggers waits for a specific number of triggers with timeout
func (f *fakeRunAPI) waitForTriggers(ctx context.Context, count int32) bool {
	// Create a timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	// Use a ticker to periodically check the trigger count
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		// Check if we've reached the desired count
		if f.triggerCount.Load() >= count {
			return true
		}

		// Wait for either a new trigger, ticker, or timeout
		select {
		case <-f.triggerCh:
			// A trigger signal received, immediately recheck the count
			continue
		case <-ticker.C:
			// Periodic check, loop back to check the count again
			continue
		case <-timeoutCtx.Done():
			// Timeout expired
			return false
		}
	}
}

// setupWatcherTest creates a watcher service backed by the fake API
func setupWatcherTest(t *testing.T, f *fakeRunAPI, runOnce bool) (*Watcher, context.Context, context.CancelFunc) {
	t.Helper()

	// Create a clean context for each test with a generous timeout to prevent hangs
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	// Create a basic logger
	logger := log.New()

	config := &Config{
		Log:         logger,
		APIBaseURL:  f.server.URL,
		APIKey:      "k-123",
		Target:      flags.TargetCase,
		TargetID:    "42",
		RunInterval: 25 * time.Millisecond, // Short interval for testing
		RunOnce:     runOnce,
	}

	// Create service against the fake backend
	service := &Watcher{
		ctx:       ctx,
		config:    config,
		runtime:   api.NewRuntimeClient(f.server.URL, config.APIKey),
		results:   api.NewResultClient(f.server.URL, config.APIKey),
		scheduler: NewDefaultScheduler(config.RunInterval, config.RunOnce, logger),
		// Add a no-op shutdown callback for tests
		shutdownCallback: func(error) {},
	}

	return service, ctx, cancel
}

// teardownWatcherTest ensures the service is fully stopped before test completion
func teardownWatcherTest(t *testing.T, service *Watcher, cancel context.CancelFunc) {
	t.Helper()

	// Cancel context first to stop background activities
	cancel()

	// Then properly stop the service
	if !service.Stopped() {
		err := service.Stop(context.Background())
		assert.NoError(t, err, "Service should stop cleanly during teardown")
	}

	// Ensure all goroutines have terminated
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := service.WaitForShutdown(ctx)
	if err != nil {
		t.Logf("Warning: Service did not shut down cleanly in teardown: %v", err)
	}
}

// TestWatcher_Start_TriggersImmediately tests that the watcher triggers a run
// immediately when started
func TestWatcher_Start_TriggersImmediately(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	service, ctx, cancel := setupWatcherTest(t, fake, false)
	defer teardownWatcherTest(t, service, cancel)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first trigger to complete
	triggered := fake.waitForTriggers(ctx, 1)
	require.True(t, triggered, "First trigger should have completed")
}

// TestWatcher_Start_TriggersPeriodically tests that the watcher triggers runs
// periodically
func TestWatcher_Start_TriggersPeriodically(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	service, ctx, cancel := setupWatcherTest(t, fake, false)
	defer teardownWatcherTest(t, service, cancel)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for multiple triggers (at least 3)
	triggered := fake.waitForTriggers(ctx, 3)
	require.True(t, triggered, "Multiple triggers should have completed")

	// Verify the backend was called multiple times
	callCount := fake.triggerCount.Load()
	assert.GreaterOrEqual(t, callCount, int32(3), "Backend should be triggered at least 3 times")
}

// TestWatcher_Context_Cancellation tests that the watcher service properly
// handles context cancellation
func TestWatcher_Context_Cancellation(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	service, ctx, cancel := setupWatcherTest(t, fake, false)
	defer teardownWatcherTest(t, service, cancel)

	// Start the service
	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first trigger to complete
	triggered := fake.waitForTriggers(ctx, 1)
	require.True(t, triggered, "First trigger should have completed")

	// Record the trigger count before cancellation
	countBeforeCancel := fake.triggerCount.Load()

	// Cancel the context
	cancel()

	// Wait a moment for the cancellation to propagate
	time.Sleep(50 * time.Millisecond)

	// Verify service is stopped
	assert.True(t, service.Stopped(), "Service should be stopped after context cancellation")

	// Wait more time to ensure no more runs trigger after stopping
	time.Sleep(3 * service.config.RunInterval)

	// Verify no additional triggers occurred after cancellation
	assert.Equal(t, countBeforeCancel, fake.triggerCount.Load(),
		"No additional triggers should occur after context cancellation")
}

// TestWatcher_RunOnceMode tests that the watcher triggers once and initiates
// shutdown in run-once mode
func TestWatcher_RunOnceMode(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	service, ctx, cancel := setupWatcherTest(t, fake, true)
	defer cancel()

	// Track the shutdown callback
	shutdownCh := make(chan error, 1)
	service.shutdownCallback = func(err error) { shutdownCh <- err }

	// Start the service; in run-once mode this blocks until the run completes
	err := service.Start(ctx)
	require.NoError(t, err)

	// The outcome of the completed run should be recorded
	require.NotNil(t, service.Outcome())
	assert.Equal(t, "run-7", service.Outcome().RunID)
	assert.Equal(t, result.StatusPassed, service.Outcome().FinalStatus())

	// The shutdown callback should fire since the run passed
	select {
	case err := <-shutdownCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for shutdown callback")
	}

	// Verify the backend was triggered exactly once and doesn't continue running
	time.Sleep(3 * service.config.RunInterval)
	assert.Equal(t, int32(1), fake.triggerCount.Load())
}

// TestWatcher_RunOnceMode_Failure tests that a failed run returns a test
// failure error (exit code 1) in run-once mode
func TestWatcher_RunOnceMode_Failure(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	fake.document = `{"runId":"run-7","duration":900,"status":"FAILED","suites":[]}`
	service, ctx, cancel := setupWatcherTest(t, fake, true)
	defer cancel()

	// Start the service
	err := service.Start(ctx)
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err), "A failed run should surface as a test failure error")
	assert.Contains(t, err.Error(), "run-7")
}

// TestWatcher_RunOnceMode_RuntimeError tests that an unreachable trigger
// endpoint surfaces as exit code 2 in run-once mode
func TestWatcher_RunOnceMode_RuntimeError(t *testing.T) {
	// Setup
	fake := newFakeRunAPI(t)
	fake.triggerStatus = http.StatusInternalServerError
	service, ctx, cancel := setupWatcherTest(t, fake, true)
	defer cancel()

	// Start the service
	err := service.Start(ctx)
	require.Error(t, err)

	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "Runtime errors should carry an exit code")
	assert.Equal(t, exitcodes.RuntimeErr, coder.ExitCode())
}

// TestWatcher_Trigger_TargetRouting tests that each target type reaches its
// own endpoint
func TestWatcher_Trigger_TargetRouting(t *testing.T) {
	tests := []struct {
		name     string
		target   flags.TargetType
		targetID string
		wantErr  string
	}{
		{
			name:     "case target",
			target:   flags.TargetCase,
			targetID: "42",
		},
		{
			name:     "suite target",
			target:   flags.TargetSuite,
			targetID: "9",
		},
		{
			name:     "monitor target",
			target:   flags.TargetMonitor,
			targetID: "mon-1",
		},
		{
			name:     "non-numeric case id",
			target:   flags.TargetCase,
			targetID: "abc",
			wantErr:  "invalid case id",
		},
		{
			name:     "non-numeric suite id",
			target:   flags.TargetSuite,
			targetID: "abc",
			wantErr:  "invalid suite id",
		},
		{
			name:     "unsupported target",
			target:   flags.TargetType("bogus"),
			targetID: "42",
			wantErr:  "unsupported target type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeRunAPI(t)
			service, ctx, cancel := setupWatcherTest(t, fake, true)
			defer cancel()

			service.config.Target = tt.target
			service.config.TargetID = tt.targetID

			runID, err := service.trigger(ctx)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fake.runID, runID)
		})
	}
}

// TestRunOutcome_FinalStatus tests status resolution for result documents
// with and without a backend-computed status
func TestRunOutcome_FinalStatus(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected result.Status
	}{
		{
			name:     "document status wins",
			document: `{"runId":"r","status":"FAILED","suites":[]}`,
			expected: result.StatusFailed,
		},
		{
			name:     "fallback to suite rollup",
			document: `{"runId":"r","suites":[{"name":"s","status":"FAILED","cases":[]}]}`,
			expected: result.StatusFailed,
		},
		{
			name:     "empty document passes",
			document: `{"runId":"r","suites":[]}`,
			expected: result.StatusPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := &RunOutcome{}
			require.NoError(t, json.Unmarshal([]byte(tt.document), outcome))
			assert.Equal(t, tt.expected, outcome.FinalStatus())
		})
	}
}
