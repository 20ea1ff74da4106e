package result

import "github.com/google/uuid"

// Case records the execution of one test case: its top-level steps, its
// setup/teardown hooks and an optional failure. The case owns the open-step
// stack that gives step instrumentation its LIFO nesting discipline.
type Case struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name,omitempty"`
	DisplayName string         `json:"displayName,omitempty"`
	Description string         `json:"description,omitempty"`
	FQN         string         `json:"fqn,omitempty"`
	StartTime   int64          `json:"startTime,omitempty"`
	EndTime     int64          `json:"endTime,omitempty"`
	Duration    int64          `json:"duration,omitempty"`
	Status      Status         `json:"status,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Arguments   map[string]any `json:"arguments,omitempty"`
	Failure     *Failure       `json:"failure,omitempty"`
	Steps       []*Step        `json:"steps"`
	Hooks       []*Step        `json:"hooks"`

	stack       []*Step
	currentHook *Step
}

// NewCase creates a started case with a generated identifier.
func NewCase(name, fqn string) *Case {
	return &Case{
		ID:          uuid.New().String(),
		Name:        name,
		DisplayName: name,
		FQN:         fqn,
		StartTime:   nowMilli(),
		Context:     make(map[string]any),
		Steps:       make([]*Step, 0),
		Hooks:       make([]*Step, 0),
		stack:       make([]*Step, 0),
	}
}

// StartStep opens a step under this case. If another step is already open the
// new step becomes its child, otherwise it is appended to the case's
// top-level sequence. The step is pushed onto the open-step stack.
func (c *Case) StartStep(name, fqn string) *Step {
	step := NewStep(name, fqn)
	if top := c.CurrentStep(); top != nil {
		top.AddStep(step)
	} else {
		c.Steps = append(c.Steps, step)
	}
	c.stack = append(c.stack, step)
	return step
}

// EndStep pops the innermost open step and finalizes it. Returns nil when no
// step is open.
func (c *Case) EndStep(status Status, failure *Failure, screenshot string) *Step {
	step := c.CurrentStep()
	if step == nil {
		return nil
	}
	c.stack = c.stack[:len(c.stack)-1]
	return step.End(status, failure, screenshot)
}

// CurrentStep returns the innermost open step, or nil.
func (c *Case) CurrentStep() *Step {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// StartHook opens a setup/teardown hook. Hooks are recorded in their own
// sequence and do not participate in the step stack.
func (c *Case) StartHook(name string) *Step {
	hook := NewStep(name, "")
	c.Hooks = append(c.Hooks, hook)
	c.currentHook = hook
	return hook
}

// EndHook finalizes the current hook. Returns nil when no hook is open.
func (c *Case) EndHook(status Status) *Step {
	hook := c.currentHook
	if hook == nil {
		return nil
	}
	c.currentHook = nil
	return hook.End(status, nil, "")
}

// End finalizes the case. Explicit status wins; otherwise a fatal failure
// means FAILED and anything else PASSED. A case ends exactly once.
func (c *Case) End(status Status, failure *Failure) *Case {
	if c.EndTime != 0 {
		return c
	}
	c.EndTime = nowMilli()
	c.Duration = c.EndTime - c.StartTime
	if failure != nil {
		c.Failure = failure
	}
	c.Status = resolveStatus(status, failure)
	return c
}

// Ended reports whether End has been called.
func (c *Case) Ended() bool {
	return c.EndTime != 0
}
