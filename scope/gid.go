package scope

import (
	"bytes"
	"runtime"
	"strconv"
)

// CurrentGID returns the calling goroutine's id, parsed from the
// "goroutine N [state]" header of a single-goroutine stack dump. The runtime
// offers no direct accessor, so the header parse is the dependable route.
func CurrentGID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGID(buf[:n])
}

// liveGIDs returns the id of every goroutine present in an all-goroutine
// stack dump.
func liveGIDs() map[uint64]struct{} {
	buf := make([]byte, 1<<20)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}

	ids := make(map[uint64]struct{})
	for _, chunk := range bytes.Split(buf, []byte("\n\n")) {
		if id := parseGID(chunk); id != 0 {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func parseGID(b []byte) uint64 {
	rest, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
