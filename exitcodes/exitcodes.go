// Package exitcodes defines the standard exit codes used by verdictctl.
package exitcodes

// Exit code constants used by the CLI to signal the outcome of a run:
//
// * Success (0): the triggered run passed
// * TestFailure (1): the triggered run finished with failures
// * RuntimeErr (2): runtime errors such as panics, timeouts or API failures
const (
	Success     = 0 // Run passed
	TestFailure = 1 // Run finished with failures
	RuntimeErr  = 2 // Runtime errors or timeouts
)
