package verdict

import "sync"

var (
	activeMu sync.RWMutex
	active   *Reporter
)

// Active returns the Reporter currently running an instance, or nil when no
// instance is in flight. Step instrumentation attaches to this Reporter, so
// code under test needs no reference to it.
func Active() *Reporter {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

func setActive(r *Reporter) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = r
}

// clearActive deregisters r. A different active Reporter stays in place, so
// a stale EndInstance cannot knock out a newer instance.
func clearActive(r *Reporter) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active == r {
		active = nil
	}
}
