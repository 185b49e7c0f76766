// Package capture manages per-camera media streams and their lifecycle.
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default stream settings applied when acquiring a media source.
const (
	DefaultFPS    = 15
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrSourceNotOpen is returned when reading from a source that is not open.
var ErrSourceNotOpen = errors.New("media source is not open")

// Source is an exclusively owned media stream handle for one camera device.
type Source interface {
	// Open acquires the underlying capture and applies stream settings.
	Open() error

	// Close releases the capture. Safe to call more than once.
	Close() error

	// ReadFrame reads the current frame. The caller is responsible for
	// closing the returned Mat.
	ReadFrame() (*gocv.Mat, error)

	// Ready reports whether the source has enough buffered data to serve
	// frames.
	Ready() bool

	// ID returns the device identifier this source reads from.
	ID() string
}

// gocvSource manages video capture from one camera device using GoCV.
type gocvSource struct {
	deviceID string
	width    int
	height   int
	fps      int
	mu       sync.Mutex
	capture  *gocv.VideoCapture
	running  bool
}

// NewSource creates a media source for the given device ID with the given
// stream settings. Zero or negative settings fall back to the defaults.
func NewSource(deviceID string, width, height, fps int) Source {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &gocvSource{
		deviceID: deviceID,
		width:    width,
		height:   height,
		fps:      fps,
	}
}

// Open opens the capture and applies the configured resolution and FPS.
func (s *gocvSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	index, err := strconv.Atoi(s.deviceID)
	if err != nil {
		return fmt.Errorf("invalid device id %q: %w", s.deviceID, err)
	}

	capture, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(s.height))
	capture.Set(gocv.VideoCaptureFPS, float64(s.fps))

	s.capture = capture
	s.running = true

	return nil
}

// Close releases the capture. Calling Close on a closed source is a no-op.
func (s *gocvSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false

	return err
}

// ReadFrame reads a single frame from the source.
func (s *gocvSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// Ready reports whether the capture is open and delivering data.
func (s *gocvSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.capture != nil && s.capture.IsOpened()
}

// ID returns the device identifier.
func (s *gocvSource) ID() string {
	return s.deviceID
}
