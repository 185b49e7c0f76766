// Package history provides the append-only landmark history buffer for a
// capture session.
package history

import (
	"sync"

	"github.com/ayusman/mudra/internal/pose"
)

// History is an append-only, insertion-ordered buffer of landmark frames.
// Growth is unbounded; only Clear empties it. Safe for concurrent use by the
// scheduler and HTTP readers.
type History struct {
	mu     sync.Mutex
	frames []pose.Frame
}

// New creates an empty History.
func New() *History {
	return &History{}
}

// Append records one frame. Frames are never mutated after append.
func (h *History) Append(frame pose.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, frame)
}

// Snapshot returns an independent copy of all recorded frames in temporal
// order. The copy is safe to serialize while appends continue.
func (h *History) Snapshot() []pose.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := make([]pose.Frame, len(h.frames))
	copy(snapshot, h.frames)
	return snapshot
}

// Clear resets the buffer to empty.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = nil
}

// Len returns the number of recorded frames.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}
