package result

// Status represents the outcome of a step, case or suite.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// resolveStatus derives the final status for an ending entity. An explicit
// status always wins; a fatal failure forces FAILED; otherwise PASSED.
func resolveStatus(explicit Status, failure *Failure) Status {
	if explicit != "" {
		return explicit
	}
	if failure != nil && failure.IsFatal {
		return StatusFailed
	}
	return StatusPassed
}

// aggregateStatus rolls case statuses up to the suite level: FAILED if any
// case failed, else SKIPPED if any case was skipped, else PASSED. An empty
// suite counts as PASSED.
func aggregateStatus(cases []*Case) Status {
	var skipped bool
	for _, c := range cases {
		switch c.Status {
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
