package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource is a test implementation of the Source interface. It serves
// synthetic frames and lets tests control readiness and failure modes.
type MockSource struct {
	deviceID string

	mu      sync.Mutex
	open    bool
	ready   bool
	openErr error
	readErr error
	reads   int
	closes  int
}

// NewMockSource creates a MockSource for the given device ID. The source
// reports Ready once opened.
func NewMockSource(deviceID string) *MockSource {
	return &MockSource{deviceID: deviceID, ready: true}
}

// SetOpenError sets the error returned by Open.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// SetReadError sets the error returned by ReadFrame.
func (s *MockSource) SetReadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// SetReady controls the Ready report for an open source.
func (s *MockSource) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Reads returns the number of successful ReadFrame calls.
func (s *MockSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Closes returns the number of Close calls.
func (s *MockSource) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Open marks the source open, or fails with the configured error.
func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.open = true
	return nil
}

// Close marks the source closed and counts the call.
func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.closes++
	return nil
}

// ReadFrame returns a small synthetic frame.
func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrSourceNotOpen
	}
	if s.readErr != nil {
		return nil, s.readErr
	}

	mat := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	s.reads++
	return &mat, nil
}

// Ready reports whether the source is open and marked ready.
func (s *MockSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open && s.ready
}

// ID returns the device identifier.
func (s *MockSource) ID() string {
	return s.deviceID
}
