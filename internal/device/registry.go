// Package device enumerates camera devices and probes their capabilities.
package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultMaxDevices is the number of capture indices probed during
// enumeration.
const DefaultMaxDevices = 5

// ErrNoDevicesFound is returned when enumeration yields no camera devices.
var ErrNoDevicesFound = errors.New("no camera devices found")

// ErrPermissionDenied is returned when camera access is refused by the host.
var ErrPermissionDenied = errors.New("camera access denied")

// CameraDevice describes one enumerated camera. DeviceID and Label are set
// by enumeration; resolution and frame rate by ProbeDetails. The record is
// not mutated afterward for the rest of the session.
type CameraDevice struct {
	DeviceID  string  `json:"deviceId"`
	Label     string  `json:"label"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frameRate"`
	IsActive  bool    `json:"isActive"`
}

// Resolution renders the probed resolution as "WxH", or "unknown" when the
// device was never probed or reported nothing.
func (d CameraDevice) Resolution() string {
	if d.Width <= 0 || d.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// FrameRateLabel renders the probed frame rate, or "unknown".
func (d CameraDevice) FrameRateLabel() string {
	if d.FrameRate <= 0 {
		return "unknown"
	}
	return strconv.FormatFloat(d.FrameRate, 'f', -1, 64)
}

// Handle is the part of a capture handle the registry uses while probing.
type Handle interface {
	Get(prop gocv.VideoCaptureProperties) float64
	Close() error
}

// OpenFunc opens a capture handle for the given device index.
type OpenFunc func(index int) (Handle, error)

func openCapture(index int) (Handle, error) {
	return gocv.OpenVideoCapture(index)
}

// Registry enumerates available camera devices and probes their details.
type Registry struct {
	open    OpenFunc
	max     int
	mu      sync.Mutex
	devices []CameraDevice
}

// NewRegistry creates a Registry probing up to maxDevices capture indices.
// Values less than 1 fall back to DefaultMaxDevices.
func NewRegistry(maxDevices int) *Registry {
	return NewRegistryWithOpener(maxDevices, openCapture)
}

// NewRegistryWithOpener creates a Registry using the given open function.
// Used by tests to enumerate without camera hardware.
func NewRegistryWithOpener(maxDevices int, open OpenFunc) *Registry {
	if maxDevices < 1 {
		maxDevices = DefaultMaxDevices
	}
	return &Registry{
		open: open,
		max:  maxDevices,
	}
}

// List enumerates input video devices by opening capture indices
// sequentially. Returns the devices in index order with DeviceID and Label
// populated. Returns ErrPermissionDenied when access is refused and
// ErrNoDevicesFound when nothing responds.
func (r *Registry) List() ([]CameraDevice, error) {
	var devices []CameraDevice

	for i := 0; i < r.max; i++ {
		h, err := r.open(i)
		if err != nil {
			if isPermissionError(err) {
				return nil, ErrPermissionDenied
			}
			continue
		}
		h.Close()

		devices = append(devices, CameraDevice{
			DeviceID: strconv.Itoa(i),
			Label:    cameraLabel(i),
		})
	}

	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}

	r.mu.Lock()
	r.devices = make([]CameraDevice, len(devices))
	copy(r.devices, devices)
	r.mu.Unlock()

	return devices, nil
}

// ProbeDetails briefly opens the device to read resolution and frame rate
// from the capture settings, then releases it. The probe turns on the
// device's hardware indicator for its duration. IsActive is set during the
// probe and stays set after the handle is released; only a fresh enumeration
// yields records with the flag cleared.
func (r *Registry) ProbeDetails(d *CameraDevice) error {
	index, err := strconv.Atoi(d.DeviceID)
	if err != nil {
		return fmt.Errorf("invalid device id %q: %w", d.DeviceID, err)
	}

	h, err := r.open(index)
	if err != nil {
		return fmt.Errorf("probe device %s: %w", d.DeviceID, err)
	}

	d.IsActive = true
	d.Width = int(h.Get(gocv.VideoCaptureFrameWidth))
	d.Height = int(h.Get(gocv.VideoCaptureFrameHeight))
	d.FrameRate = h.Get(gocv.VideoCaptureFPS)

	r.mu.Lock()
	for i := range r.devices {
		if r.devices[i].DeviceID == d.DeviceID {
			r.devices[i] = *d
		}
	}
	r.mu.Unlock()

	return h.Close()
}

// Devices returns a copy of the most recently enumerated device records.
func (r *Registry) Devices() []CameraDevice {
	r.mu.Lock()
	defer r.mu.Unlock()

	devices := make([]CameraDevice, len(r.devices))
	copy(devices, r.devices)
	return devices
}

// cameraLabel builds a display name for a capture index. Index 0 is usually
// the built-in webcam.
func cameraLabel(index int) string {
	if index == 0 {
		return "Built-in Camera"
	}
	return fmt.Sprintf("Camera %d", index)
}

func isPermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "not authorized") ||
		strings.Contains(msg, "access denied")
}
