package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/device"
)

// ErrDeviceUnavailable is returned when acquiring a stream for a specific
// device fails.
var ErrDeviceUnavailable = errors.New("device unavailable")

// SourceFactory builds a media source for a device.
type SourceFactory func(dev device.CameraDevice) Source

// DefaultFactory returns a SourceFactory producing GoCV sources with the
// given stream settings.
func DefaultFactory(width, height, fps int) SourceFactory {
	return func(dev device.CameraDevice) Source {
		return NewSource(dev.DeviceID, width, height, fps)
	}
}

// Manager acquires and releases per-device media streams. Streams are held
// in registration order; the scheduler relies on that order staying stable
// while inference is active.
type Manager struct {
	factory SourceFactory
	mu      sync.Mutex
	streams []*ActiveStream
}

// NewManager creates a Manager building sources with the given factory.
func NewManager(factory SourceFactory) *Manager {
	return &Manager{factory: factory}
}

// Acquire requests a media stream for the device and registers the
// resulting ActiveStream. Failures are wrapped in ErrDeviceUnavailable.
func (m *Manager) Acquire(dev device.CameraDevice) (*ActiveStream, error) {
	src := m.factory(dev)
	if err := src.Open(); err != nil {
		return nil, fmt.Errorf("%w: camera %s: %v", ErrDeviceUnavailable, dev.DeviceID, err)
	}

	stream := newActiveStream(dev, src)

	m.mu.Lock()
	m.streams = append(m.streams, stream)
	m.mu.Unlock()

	return stream, nil
}

// AcquireAll acquires a stream for each device sequentially. A failure on
// one device logs a warning and continues with the rest; the batch is never
// aborted for one bad device. Returns the streams that were acquired.
func (m *Manager) AcquireAll(devices []device.CameraDevice) []*ActiveStream {
	var acquired []*ActiveStream
	for _, dev := range devices {
		stream, err := m.Acquire(dev)
		if err != nil {
			log.Printf("Skipping camera %s (%s): %v", dev.DeviceID, dev.Label, err)
			continue
		}
		acquired = append(acquired, stream)
	}
	return acquired
}

// ReleaseAll releases every currently held stream and clears the
// registration list. Used on teardown and before re-listing cameras.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	streams := m.streams
	m.streams = nil
	m.mu.Unlock()

	for _, stream := range streams {
		if err := stream.Release(); err != nil {
			log.Printf("Error releasing camera %s: %v", stream.DeviceID, err)
		}
	}
}

// Streams returns the held streams in registration order.
func (m *Manager) Streams() []*ActiveStream {
	m.mu.Lock()
	defer m.mu.Unlock()

	streams := make([]*ActiveStream, len(m.streams))
	copy(streams, m.streams)
	return streams
}

// Stream looks up a held stream by device ID.
func (m *Manager) Stream(deviceID string) (*ActiveStream, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, stream := range m.streams {
		if stream.DeviceID == deviceID {
			return stream, true
		}
	}
	return nil, false
}
