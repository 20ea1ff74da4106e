// Package scope tracks the current suite/case scope per goroutine so that
// step instrumentation can attach to the right parent without threading tree
// references through every call site.
package scope

import "sync"

// Key names one slot of a goroutine's scope.
type Key string

const (
	KeySuite Key = "suite"
	KeyCase  Key = "case"
)

// Tracker maps goroutine identity to an ordered key/value scope. A goroutine
// that never set any scope value and is not the goroutine that created the
// Tracker inherits, on first access, a snapshot of the creator's most
// recently set key/value pair. The snapshot is stored into the reader's own
// entry: it is a one-time copy, not a live link, and any later writes by that
// goroutine stay local to it.
type Tracker struct {
	mu      sync.RWMutex
	entries map[uint64]*entry
	initGID uint64
}

type entry struct {
	values map[Key]any
	last   Key
}

func newEntry() *entry {
	return &entry{values: make(map[Key]any)}
}

// NewTracker creates a tracker owned by the calling goroutine. That goroutine
// is the inheritance source for goroutines that never set scope themselves.
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[uint64]*entry),
		initGID: CurrentGID(),
	}
}

// Set stores value under key in the calling goroutine's scope.
func (t *Tracker) Set(key Key, value any) {
	gid := CurrentGID()
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.scopeLocked(gid)
	e.values[key] = value
	e.last = key
}

// Get returns the value under key in the calling goroutine's scope, applying
// the inheritance rule when the goroutine has no scope of its own. Returns
// nil when the key was never set.
func (t *Tracker) Get(key Key) any {
	gid := CurrentGID()

	t.mu.RLock()
	if e, ok := t.entries[gid]; ok {
		v := e.values[key]
		t.mu.RUnlock()
		return v
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scopeLocked(gid).values[key]
}

// scopeLocked returns the entry for gid, creating it first. A freshly created
// entry for a non-initializing goroutine receives the initializing
// goroutine's most recent pair as its starting content.
func (t *Tracker) scopeLocked(gid uint64) *entry {
	if e, ok := t.entries[gid]; ok {
		return e
	}
	e := newEntry()
	if gid != t.initGID {
		if init, ok := t.entries[t.initGID]; ok && init.last != "" {
			e.values[init.last] = init.values[init.last]
			e.last = init.last
		}
	}
	t.entries[gid] = e
	return e
}

// Cleanup removes entries belonging to goroutines that no longer exist.
// Long-lived processes call this between runs to keep the map bounded.
func (t *Tracker) Cleanup() {
	live := liveGIDs()

	t.mu.Lock()
	defer t.mu.Unlock()
	for gid := range t.entries {
		if _, ok := live[gid]; !ok {
			delete(t.entries, gid)
		}
	}
}

// Size reports the number of tracked goroutine entries.
func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
