package verdict

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"

	"github.com/verdicthq/verdict-go/result"
)

// moduleName is this SDK's import path, used to keep its own frames out of
// failure locations.
const moduleName = "github.com/verdicthq/verdict-go"

// recoveredPanic carries a panic value recovered by step instrumentation
// through the error-based classification path. The original value is
// re-raised after the step is recorded.
type recoveredPanic struct {
	value any
}

func (p *recoveredPanic) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

type failureMapping struct {
	substring   string
	failureType result.FailureType
}

var (
	mappingsMu sync.RWMutex
	mappings   = []failureMapping{
		{substring: "selenium", failureType: result.FailureTypeSelenium},
		{substring: "webdriver", failureType: result.FailureTypeSelenium},
	}
)

// RegisterFailureMapping classifies errors originating from packages whose
// import path contains substring (case-insensitive) as the given failure
// type. Driver integrations register their packages at init time.
func RegisterFailureMapping(substring string, failureType result.FailureType) {
	mappingsMu.Lock()
	defer mappingsMu.Unlock()
	mappings = append(mappings, failureMapping{
		substring:   strings.ToLower(substring),
		failureType: failureType,
	})
}

// Classify converts an error into a Failure record. The package the error
// type originates from decides the failure type, the message is cleaned of
// driver noise, and the deepest non-library frame of the current call stack
// becomes the failure location. Returns nil for a nil error.
func Classify(err error) *result.Failure {
	if err == nil {
		return nil
	}

	subType := errorTypeName(err)
	return &result.Failure{
		Type:       failureTypeOf(err, subType),
		SubType:    subType,
		Message:    cleanMessage(err.Error()),
		Stacktrace: string(debug.Stack()),
		Location:   callerLocation(),
		IsFatal:    true,
	}
}

// errorTypeName names the concrete error type. A recovered panic is named
// after the type of the panic value instead of the wrapper.
func errorTypeName(err error) string {
	var rp *recoveredPanic
	if errors.As(err, &rp) {
		return fmt.Sprintf("%T", rp.value)
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// failureTypeOf walks the error chain looking for a registered package
// mapping, then falls back to assertion detection by type name or message.
func failureTypeOf(err error, subType string) result.FailureType {
	mappingsMu.RLock()
	defer mappingsMu.RUnlock()
	for e := err; e != nil; e = errors.Unwrap(e) {
		pkg := strings.ToLower(errorPkgPath(e))
		if pkg == "" {
			continue
		}
		for _, m := range mappings {
			if strings.Contains(pkg, m.substring) {
				return m.failureType
			}
		}
	}
	if strings.Contains(subType, "Assertion") ||
		strings.Contains(strings.ToLower(err.Error()), "assertion failed") {
		return result.FailureTypeAssert
	}
	return result.FailureTypeGeneral
}

func errorPkgPath(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.PkgPath()
}

// cleanMessage extracts the human-readable part of a driver error message:
// ANSI escape sequences and everything from "Stacktrace:" on are dropped,
// and a leading "Message:" label is removed.
func cleanMessage(message string) string {
	message = stripansi.Strip(message)
	if idx := strings.Index(message, "Stacktrace:"); idx != -1 {
		message = message[:idx]
	}
	message = strings.TrimSpace(message)
	message = strings.TrimPrefix(message, "Message:")
	return strings.TrimSpace(message)
}

// callerLocation returns "file:line" of the deepest user-code frame of the
// current call stack. Synthetic frames, the module cache, the standard
// library and this SDK's own packages are skipped; SDK test files count as
// user code so instrumented tests still get locations.
func callerLocation() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if isUserFrame(frame) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func isUserFrame(frame runtime.Frame) bool {
	if frame.File == "" || strings.HasPrefix(frame.File, "<") {
		return false
	}
	if strings.Contains(frame.File, "/pkg/mod/") {
		return false
	}
	if strings.HasPrefix(frame.Function, moduleName) {
		return strings.HasSuffix(frame.File, "_test.go")
	}
	return !isStdlibFunction(frame.Function)
}

// isStdlibFunction reports whether a fully-qualified function name belongs
// to the standard library: its root path element carries no dot and is not
// the main package.
func isStdlibFunction(function string) bool {
	root := function
	if slash := strings.Index(root, "/"); slash != -1 {
		root = root[:slash]
	} else if dot := strings.Index(root, "."); dot != -1 {
		root = root[:dot]
	}
	return root != "main" && !strings.Contains(root, ".")
}
