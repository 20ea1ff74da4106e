// Package result models a test run as a tree: a Run contains Suites, a Suite
// contains Cases, a Case contains Steps and Hooks, and Steps nest
// recursively. Entities are pure data with single-shot lifecycle transitions;
// the tree performs no I/O apart from the local artifact writer.
package result

import "time"

// Run is the top-level record of one execution of a test instance.
type Run struct {
	RunID                string            `json:"runId,omitempty"`
	InstanceID           string            `json:"instanceId,omitempty"`
	StartTime            int64             `json:"startTime,omitempty"`
	EndTime              int64             `json:"endTime,omitempty"`
	Duration             int64             `json:"duration,omitempty"`
	Capabilities         map[string]any    `json:"capabilities,omitempty"`
	Options              map[string]any    `json:"options,omitempty"`
	Metadata             map[string]any    `json:"metaData,omitempty"`
	EnvironmentVariables map[string]string `json:"environmentVariables,omitempty"`
	TestAttributes       map[string]any    `json:"testAttributes,omitempty"`
	Suites               []*Suite          `json:"suites"`
}

// NewRun creates a started run.
func NewRun(runID, instanceID string, options, capabilities, metadata map[string]any, envVars map[string]string) *Run {
	return &Run{
		RunID:                runID,
		InstanceID:           instanceID,
		StartTime:            nowMilli(),
		Capabilities:         capabilities,
		Options:              options,
		Metadata:             metadata,
		EnvironmentVariables: envVars,
		TestAttributes:       make(map[string]any),
		Suites:               make([]*Suite, 0),
	}
}

// AddSuite appends a suite. Insertion order is execution order.
func (r *Run) AddSuite(s *Suite) {
	r.Suites = append(r.Suites, s)
}

// End finalizes the run and computes its duration. Ending an already-ended
// run returns it unchanged.
func (r *Run) End() *Run {
	if r.EndTime != 0 {
		return r
	}
	r.EndTime = nowMilli()
	r.Duration = r.EndTime - r.StartTime
	return r
}

// Status aggregates the run outcome from its suites using the same rollup as
// suite-level aggregation: FAILED beats SKIPPED beats PASSED.
func (r *Run) Status() Status {
	var skipped bool
	for _, s := range r.Suites {
		switch s.Status {
		case StatusFailed:
			return StatusFailed
		case StatusSkipped:
			skipped = true
		}
	}
	if skipped {
		return StatusSkipped
	}
	return StatusPassed
}

func nowMilli() int64 {
	return time.Now().UnixMilli()
}
