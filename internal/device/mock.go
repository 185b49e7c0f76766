package device

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockHandle is a test capture handle with fixed property values.
type MockHandle struct {
	Width     float64
	Height    float64
	FrameRate float64

	mu     sync.Mutex
	closed bool
}

// Get returns the configured value for the requested capture property.
func (h *MockHandle) Get(prop gocv.VideoCaptureProperties) float64 {
	switch prop {
	case gocv.VideoCaptureFrameWidth:
		return h.Width
	case gocv.VideoCaptureFrameHeight:
		return h.Height
	case gocv.VideoCaptureFPS:
		return h.FrameRate
	}
	return 0
}

// Close marks the handle closed.
func (h *MockHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (h *MockHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// MockOpener returns an OpenFunc that succeeds for the given indices and
// fails with err for everything else.
func MockOpener(available map[int]*MockHandle, err error) OpenFunc {
	return func(index int) (Handle, error) {
		if h, ok := available[index]; ok {
			return h, nil
		}
		return nil, err
	}
}
