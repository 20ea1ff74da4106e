package result

import "github.com/google/uuid"

// Step records a single instrumented action. Steps nest: a step opened while
// another step is still open becomes a child of that step, so the Steps
// sequence mirrors call nesting to arbitrary depth.
type Step struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name,omitempty"`
	FQN        string   `json:"fqn,omitempty"`
	StartTime  int64    `json:"startTime,omitempty"`
	EndTime    int64    `json:"endTime,omitempty"`
	Duration   int64    `json:"duration,omitempty"`
	Status     Status   `json:"status,omitempty"`
	Screenshot string   `json:"screenShot,omitempty"`
	Failure    *Failure `json:"failure,omitempty"`
	Steps      []*Step  `json:"steps"`
}

// NewStep creates a started step with a generated identifier.
func NewStep(name, fqn string) *Step {
	return &Step{
		ID:        uuid.New().String(),
		Name:      name,
		FQN:       fqn,
		StartTime: nowMilli(),
		Steps:     make([]*Step, 0),
	}
}

// AddStep appends a child step. Insertion order is execution order.
func (s *Step) AddStep(child *Step) {
	s.Steps = append(s.Steps, child)
}

// End finalizes the step. A step ends exactly once; ending an already-ended
// step returns it unchanged.
func (s *Step) End(status Status, failure *Failure, screenshot string) *Step {
	if s.EndTime != 0 {
		return s
	}
	s.EndTime = nowMilli()
	s.Duration = s.EndTime - s.StartTime
	if failure != nil {
		s.Failure = failure
	}
	if screenshot != "" {
		s.Screenshot = screenshot
	}
	s.Status = resolveStatus(status, failure)
	return s
}

// Ended reports whether End has been called.
func (s *Step) Ended() bool {
	return s.EndTime != 0
}
