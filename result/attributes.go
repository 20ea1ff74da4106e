package result

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Test attribute keys describing the agent that executed the run.
const (
	AttrHostname  = "agent.hostname"
	AttrOSName    = "agent.os.name"
	AttrOSVersion = "agent.os.version"
)

// CaptureSystemAttributes merges the agent's hostname and operating system
// identity into the run's test attributes. Existing keys are overwritten.
func (r *Run) CaptureSystemAttributes() {
	if r.TestAttributes == nil {
		r.TestAttributes = make(map[string]any)
	}
	hostname, _ := os.Hostname()
	r.TestAttributes[AttrHostname] = hostname
	r.TestAttributes[AttrOSName] = runtime.GOOS
	r.TestAttributes[AttrOSVersion] = osVersion()
}

// osVersion returns the OS version string. Darwin reports its marketing
// version through sw_vers; other platforms fall back to the kernel release.
func osVersion() string {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("sw_vers", "-productVersion").Output()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	case "linux":
		out, err := os.ReadFile("/proc/sys/kernel/osrelease")
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	default:
		return ""
	}
}
