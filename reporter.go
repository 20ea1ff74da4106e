// Package verdict is the Verdict test reporting SDK. A Reporter accumulates
// one run's result tree (suites, cases, steps, hooks), tracks the current
// suite/case scope per goroutine, and streams case transitions to the Verdict
// backend while the run is in flight. When the instance ends the full tree is
// written to a local artifact and pushed upstream.
package verdict

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/metrics"
	"github.com/verdicthq/verdict-go/result"
	"github.com/verdicthq/verdict-go/scope"
)

// languageName tags every status push with the SDK implementation language.
const languageName = "go"

// reporterState tracks the single-shot lifecycle of a Reporter.
type reporterState int

const (
	stateUnstarted reporterState = iota
	stateStarted
	stateEnded
)

// Reporter builds the result tree for one test instance and reports case
// transitions to the backend as they happen. All methods are safe for
// concurrent use; suite/case scope is resolved per calling goroutine, so
// tests running in parallel each see their own current case.
//
// Every operation besides StartInstance is a no-op until the instance is
// started, and every operation besides EndInstance is a no-op after it ends.
type Reporter struct {
	config  *Config
	log     log.Logger
	tracker *scope.Tracker
	push    *api.PushClient

	mu    sync.Mutex
	state reporterState
	run   *result.Run
}

// NewReporter creates a Reporter for the given configuration. Status pushes
// are enabled only when the config carries both an API base URL and an agent
// token; without them the Reporter works fully offline and only the local
// artifact is produced.
func NewReporter(cfg *Config) (*Reporter, error) {
	if cfg == nil {
		return nil, errors.New("reporter config is required")
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.New("module", "reporter")
	}

	r := &Reporter{
		config:  cfg,
		log:     logger,
		tracker: scope.NewTracker(),
	}
	if cfg.APIBaseURL != "" && cfg.PushToken != "" {
		r.push = api.NewPushClient(cfg.APIBaseURL, cfg.PushToken)
	}
	return r, nil
}

// StartInstance begins the run: it registers this Reporter as the active one,
// creates the result tree, captures the agent's system attributes and pushes
// a "Running" instance status. Starting an already-started instance has no
// effect.
func (r *Reporter) StartInstance() {
	r.mu.Lock()
	if r.state != stateUnstarted {
		r.mu.Unlock()
		return
	}
	r.state = stateStarted
	setActive(r)

	run := result.NewRun(
		r.config.RunID,
		r.config.InstanceID,
		r.config.Options,
		r.config.Capabilities,
		r.config.Metadata,
		r.config.EnvironmentVariables,
	)
	run.CaptureSystemAttributes()
	r.run = run
	r.mu.Unlock()

	if r.push != nil {
		r.push.UpdateInstanceStatus(context.Background(), api.InstanceStatusUpdate{
			RunID:      r.config.RunID,
			InstanceID: r.config.InstanceID,
			Status:     api.InstanceStatusRunning,
		})
	}
	r.log.Info("Test instance started", "runId", r.config.RunID, "instanceId", r.config.InstanceID)
}

// EndInstance finishes the run: it deregisters the Reporter, finalizes the
// tree, writes the local results artifact, pushes the full result upstream
// and flips the instance status to Finished. The artifact write is the hard
// dependency; the upstream pushes are fire-and-forget. Ending an instance
// that never started, or ending twice, has no effect.
func (r *Reporter) EndInstance() error {
	r.mu.Lock()
	clearActive(r)
	if r.state != stateStarted {
		r.mu.Unlock()
		return nil
	}
	r.state = stateEnded
	run := r.run.End()
	r.tracker.Cleanup()
	r.mu.Unlock()

	path, err := result.WriteArtifact(run, r.config.ArtifactDir)
	metrics.RecordArtifactWrite(err == nil)

	if r.push != nil {
		r.push.AddInstanceResult(context.Background(), run.RunID, run.InstanceID, run)
		r.push.UpdateInstanceStatus(context.Background(), api.InstanceStatusUpdate{
			RunID:      r.config.RunID,
			InstanceID: r.config.InstanceID,
			Status:     api.InstanceStatusFinished,
			Progress:   100,
		})
	}

	if err != nil {
		r.log.Error("Failed to write results artifact", "error", err)
		return fmt.Errorf("ending instance: %w", err)
	}
	r.log.Info("Test instance finished", "status", run.Status(), "artifact", path)
	return nil
}

// StartSuite opens a suite and makes it the calling goroutine's current
// suite. The current case is reset, so goroutines spawned before the suite's
// first case starts inherit no stale case. Returns nil when no instance is
// running.
func (r *Reporter) StartSuite(name, fqn string) *result.Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != stateStarted {
		r.log.Debug("Suite start ignored; no running instance", "name", name)
		return nil
	}
	suite := result.NewSuite(name, fqn)
	r.run.AddSuite(suite)
	r.tracker.Set(scope.KeySuite, suite)
	r.tracker.Set(scope.KeyCase, nil)
	r.log.Debug("Suite started", "name", name, "fqn", fqn)
	return suite
}

// EndSuite finalizes the calling goroutine's current suite, aggregating its
// status from the contained cases, and reports the suite as complete.
// Returns nil when no suite is current.
func (r *Reporter) EndSuite() *result.Suite {
	r.mu.Lock()
	suite := r.currentSuite()
	if suite == nil {
		r.mu.Unlock()
		r.log.Debug("Suite end ignored; no current suite")
		return nil
	}
	suite.End()
	r.mu.Unlock()

	if r.push != nil {
		r.push.UpdateSuiteStatus(context.Background(), api.SuiteStatusUpdate{
			RunID:      r.config.RunID,
			InstanceID: r.config.InstanceID,
			SuiteID:    suite.ID,
			Status:     string(suite.Status),
			Progress:   100,
		})
	}
	r.log.Debug("Suite ended", "name", suite.Name, "status", suite.Status)
	return suite
}

// StartCase opens a case under the calling goroutine's current suite and
// makes it the current case. The case inherits the run's browserName
// capability into its context, and a "Running" status update is pushed.
// Returns nil when no suite is current.
func (r *Reporter) StartCase(name, fqn string) *result.Case {
	r.mu.Lock()
	suite := r.currentSuite()
	if suite == nil {
		r.mu.Unlock()
		r.log.Debug("Case start ignored; no current suite", "name", name)
		return nil
	}
	c := result.NewCase(name, fqn)
	if browser, ok := r.run.Capabilities["browserName"]; ok {
		c.Context["browserName"] = browser
	}
	suite.AddCase(c)
	r.tracker.Set(scope.KeyCase, c)
	update := r.caseUpdate(c, suite)
	update.RunStatus = api.CaseRunStatusRunning
	if browser, ok := c.Context["browserName"]; ok {
		update.Capabilities = map[string]any{"browserName": browser}
	}
	r.mu.Unlock()

	if r.push != nil {
		r.push.UpdateCaseStatus(context.Background(), update)
	}
	r.log.Debug("Case started", "name", name, "fqn", fqn)
	return c
}

// EndCase finalizes the calling goroutine's current case. An explicit status
// wins; otherwise the classified failure decides. A "Finished" status update
// carrying the final test status is pushed. Returns nil when no case is
// current.
func (r *Reporter) EndCase(status result.Status, err error) *result.Case {
	return r.endCase(status, err, false)
}

// EndCaseSkipPush finalizes the current case without emitting a status push.
// Integrations that report case transitions through their own channel use
// this to avoid duplicate updates.
func (r *Reporter) EndCaseSkipPush(status result.Status, err error) *result.Case {
	return r.endCase(status, err, true)
}

func (r *Reporter) endCase(status result.Status, err error, skipPush bool) *result.Case {
	r.mu.Lock()
	c := r.currentCase()
	if c == nil {
		r.mu.Unlock()
		r.log.Debug("Case end ignored; no current case")
		return nil
	}
	c.End(status, Classify(err))
	suite := r.currentSuite()
	update := r.caseUpdate(c, suite)
	update.RunStatus = api.CaseRunStatusFinished
	update.EndTime = c.EndTime
	update.TestStatus = string(c.Status)
	r.mu.Unlock()

	if r.push != nil && !skipPush {
		r.push.UpdateCaseStatus(context.Background(), update)
	}
	r.log.Debug("Case ended", "name", c.Name, "status", c.Status)
	return c
}

// StartHook opens a setup/teardown hook on the current case. Returns nil
// when no case is current.
func (r *Reporter) StartHook(name string) *result.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.currentCase()
	if c == nil {
		return nil
	}
	return c.StartHook(name)
}

// EndHook finalizes the current case's open hook. Returns nil when no case
// is current.
func (r *Reporter) EndHook(status result.Status) *result.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.currentCase()
	if c == nil {
		return nil
	}
	return c.EndHook(status)
}

// StartStep opens a step on the calling goroutine's current case. Steps nest:
// a step opened while another is still open becomes its child. Returns nil
// when no case is current.
func (r *Reporter) StartStep(name, fqn string) *result.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.currentCase()
	if c == nil {
		return nil
	}
	return c.StartStep(name, fqn)
}

// EndStep finalizes the innermost open step of the current case. An explicit
// status wins; otherwise the classified failure decides. Returns nil when no
// case or no open step is current.
func (r *Reporter) EndStep(status result.Status, err error) *result.Step {
	return r.EndStepWithScreenshot(status, err, "")
}

// EndStepWithScreenshot is EndStep with a base64-encoded screenshot attached
// to the ended step.
func (r *Reporter) EndStepWithScreenshot(status result.Status, err error, screenshot string) *result.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.currentCase()
	if c == nil {
		return nil
	}
	return c.EndStep(status, Classify(err), screenshot)
}

// Run returns the result tree accumulated so far. Nil until the instance
// starts.
func (r *Reporter) Run() *result.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run
}

// caseUpdate builds the payload fields common to the Running and Finished
// case pushes. Parent fields stay empty when the calling goroutine has no
// current suite. Callers hold r.mu.
func (r *Reporter) caseUpdate(c *result.Case, suite *result.Suite) api.CaseStatusUpdate {
	update := api.CaseStatusUpdate{
		Timestamp:  nowMilli(),
		RunID:      r.config.RunID,
		InstanceID: r.config.InstanceID,
		ID:         c.ID,
		FQN:        c.FQN,
		Name:       c.Name,
		StartTime:  c.StartTime,
		Framework:  r.config.Framework,
		Language:   languageName,
	}
	if suite != nil {
		update.ParentFQN = suite.FQN
		update.ParentID = suite.ID
	}
	return update
}

func (r *Reporter) currentSuite() *result.Suite {
	suite, _ := r.tracker.Get(scope.KeySuite).(*result.Suite)
	return suite
}

func (r *Reporter) currentCase() *result.Case {
	c, _ := r.tracker.Get(scope.KeyCase).(*result.Case)
	return c
}

func nowMilli() int64 {
	return time.Now().UnixMilli()
}
