package capture

import (
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/device"
	"github.com/ayusman/mudra/internal/pose"
)

// ActiveStream is one acquired camera stream. It owns its media source
// exclusively; the source is released exactly once, on the first Release
// call. The stream also carries the latest pose result for its device.
type ActiveStream struct {
	DeviceID string
	Label    string

	source   Source
	mu       sync.Mutex
	latest   *pose.Frame
	updated  time.Time
	released bool
}

func newActiveStream(dev device.CameraDevice, src Source) *ActiveStream {
	return &ActiveStream{
		DeviceID: dev.DeviceID,
		Label:    dev.Label,
		source:   src,
	}
}

// Source returns the owned media source.
func (s *ActiveStream) Source() Source {
	return s.source
}

// SetLatest stores the most recent pose result for this stream.
func (s *ActiveStream) SetLatest(frame *pose.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = frame
	s.updated = time.Now()
}

// Latest returns the most recent pose result and when it was stored.
// The result is nil until the first successful inference.
func (s *ActiveStream) Latest() (*pose.Frame, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.updated
}

// Release stops the underlying source and clears ownership. Idempotent;
// a second Release is a no-op.
func (s *ActiveStream) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true
	return s.source.Close()
}

// Released reports whether the stream has been released.
func (s *ActiveStream) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
