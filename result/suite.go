package result

import "github.com/google/uuid"

// Suite groups the cases executed under one test grouping.
type Suite struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	FQN       string  `json:"fqn,omitempty"`
	StartTime int64   `json:"startTime,omitempty"`
	EndTime   int64   `json:"endTime,omitempty"`
	Duration  int64   `json:"duration,omitempty"`
	Status    Status  `json:"status,omitempty"`
	Cases     []*Case `json:"cases"`
}

// NewSuite creates a started suite with a generated identifier.
func NewSuite(name, fqn string) *Suite {
	return &Suite{
		ID:        uuid.New().String(),
		Name:      name,
		FQN:       fqn,
		StartTime: nowMilli(),
		Cases:     make([]*Case, 0),
	}
}

// AddCase appends a case. Insertion order is execution order; cases are never
// removed.
func (s *Suite) AddCase(c *Case) {
	s.Cases = append(s.Cases, c)
}

// End finalizes the suite and aggregates its status from the contained cases.
// A suite ends exactly once.
func (s *Suite) End() *Suite {
	if s.EndTime != 0 {
		return s
	}
	s.EndTime = nowMilli()
	s.Duration = s.EndTime - s.StartTime
	s.Status = aggregateStatus(s.Cases)
	return s
}

// Ended reports whether End has been called.
func (s *Suite) Ended() bool {
	return s.EndTime != 0
}
