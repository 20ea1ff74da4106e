package verdict

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/verdicthq/verdict-go/result"
)

// Bindings supplies named values for step name templates. A template like
// "Login as {username}" is resolved against the bindings when the step runs.
type Bindings map[string]any

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Wrap instruments fn as a named step: the returned function records a step
// on the active reporter's current case every time it is invoked. The
// reporter is looked up at call time, not wrap time, so functions wrapped
// during test setup report correctly once the instance starts, and run
// untouched when no reporter is active.
func Wrap(name string, fn func() error) func() error {
	return func() error {
		return Step(name, fn)
	}
}

// WrapWith is Wrap with a name template: {placeholder} tokens in name are
// resolved from bindings when the step runs. Tokens without a binding stay
// literal.
func WrapWith(name string, bindings Bindings, fn func() error) func() error {
	return func() error {
		return StepWith(name, bindings, fn)
	}
}

// Step runs fn immediately as a named step on the active reporter's current
// case. The step passes when fn returns nil and fails with the returned
// error otherwise; the error comes back unchanged. A panic fails the step
// and is re-raised. Steps created inside fn become sub-steps. When no
// reporter is active fn just runs.
func Step(name string, fn func() error) error {
	r := Active()
	if r == nil {
		return fn()
	}
	return runStep(r, name, fn)
}

// StepWith is Step with a name template resolved from bindings.
func StepWith(name string, bindings Bindings, fn func() error) error {
	r := Active()
	if r == nil {
		return fn()
	}
	return runStep(r, resolveStepName(name, bindings), fn)
}

func runStep(r *Reporter, name string, fn func() error) (err error) {
	r.StartStep(name, "")
	defer func() {
		if rec := recover(); rec != nil {
			r.EndStep(result.StatusFailed, &recoveredPanic{value: rec})
			panic(rec)
		}
		if err != nil {
			r.EndStep(result.StatusFailed, err)
		} else {
			r.EndStep(result.StatusPassed, nil)
		}
	}()
	return fn()
}

// resolveStepName substitutes {placeholder} tokens from bindings. Resolution
// is per token: an unresolvable token is left as written instead of
// discarding the whole template.
func resolveStepName(template string, bindings Bindings) string {
	if !strings.Contains(template, "{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := bindings[key]; ok {
			return fmt.Sprint(value)
		}
		return match
	})
}
