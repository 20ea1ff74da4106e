package logging

import (
	"fmt"
	"os"
	"sync"
)

// AsyncWriter is a file-backed io.Writer that performs the actual writes
// on a background goroutine, so logging to a file never blocks the caller.
type AsyncWriter struct {
	file    *os.File
	queue   chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewAsyncWriter opens (or truncates) the file at path and starts the
// background writer.
func NewAsyncWriter(path string) (*AsyncWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	w := &AsyncWriter{
		file:  file,
		queue: make(chan []byte, 100), // Buffer channel to reduce blocking
	}

	w.wg.Add(1)
	go w.processQueue()

	return w, nil
}

// Write queues p to be written asynchronously.
func (w *AsyncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return 0, fmt.Errorf("async writer is closed")
	}

	// Make a copy of the data to avoid race conditions
	buf := make([]byte, len(p))
	copy(buf, p)

	w.queue <- buf
	return len(p), nil
}

// processQueue processes the write queue in the background.
func (w *AsyncWriter) processQueue() {
	defer w.wg.Done()

	for data := range w.queue {
		if _, err := w.file.Write(data); err != nil {
			// Log the error but continue processing
			fmt.Fprintf(os.Stderr, "Error writing to log file: %v\n", err)
		}
	}
}

// Close stops the background writer, drains pending writes and closes
// the file.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	// Wait for all writes to complete
	w.wg.Wait()
	return w.file.Close()
}
