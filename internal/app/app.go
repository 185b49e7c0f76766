// Package app orchestrates the Mudra multi-camera pose capture pipeline.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/device"
	"github.com/ayusman/mudra/internal/history"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/google/uuid"
)

// DefaultMinInterval is the minimum time between inference work units,
// roughly 10Hz. It protects against oversubscribing the model instances.
const DefaultMinInterval = 100 * time.Millisecond

// State is the inference scheduler state.
type State int

const (
	// Idle means the scheduling loop is not running.
	Idle State = iota
	// Active means the scheduling loop is processing streams.
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Config holds configuration options for the application.
type Config struct {
	Registry    *device.Registry
	Manager     *capture.Manager
	PoolSize    int
	Factory     pose.Factory
	MinInterval time.Duration
}

// App owns the device registry, stream manager, model pool, landmark
// history and the inference scheduler state.
type App struct {
	registry    *device.Registry
	manager     *capture.Manager
	pool        *pose.Pool
	history     *history.History
	minInterval time.Duration

	mu        sync.RWMutex
	state     State
	stopCh    chan struct{}
	sessionID string
	poseData  map[string]map[string]pose.Landmark
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	registry := config.Registry
	if registry == nil {
		registry = device.NewRegistry(device.DefaultMaxDevices)
	}

	manager := config.Manager
	if manager == nil {
		manager = capture.NewManager(capture.DefaultFactory(
			capture.DefaultWidth, capture.DefaultHeight, capture.DefaultFPS))
	}

	factory := config.Factory
	if factory == nil {
		factory = defaultFactory
	}

	minInterval := config.MinInterval
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}

	return &App{
		registry:    registry,
		manager:     manager,
		pool:        pose.NewPool(config.PoolSize, factory),
		history:     history.New(),
		minInterval: minInterval,
		state:       Idle,
		poseData:    make(map[string]map[string]pose.Landmark),
	}
}

// defaultFactory tries MediaPipe first and falls back to the mock estimator.
func defaultFactory() (pose.Estimator, error) {
	mp, err := pose.NewMediaPipeEstimator(pose.DefaultConfig())
	if err == nil {
		log.Println("Using MediaPipe holistic estimation")
		return mp, nil
	}
	log.Printf("MediaPipe not available (%v), using mock estimator", err)
	return pose.NewMockEstimator(), nil
}

// State returns the current scheduler state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Toggle flips the scheduler between Idle and Active. Activation lazily
// builds the model pool and starts a fresh scheduling loop; deactivation
// signals the running loop to stop. Returns the state after the flip.
func (a *App) Toggle() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == Active {
		a.state = Idle
		if a.stopCh != nil {
			close(a.stopCh)
			a.stopCh = nil
		}
		log.Println("Pose estimation stopped")
		return Idle
	}

	if err := a.pool.Build(); err != nil {
		log.Printf("Failed to build model pool: %v", err)
		return Idle
	}

	a.state = Active
	a.stopCh = make(chan struct{})
	go a.runLoop(a.stopCh)

	log.Println("Pose estimation started")
	return Active
}

// StartPoseEstimation activates the scheduler if it is idle.
func (a *App) StartPoseEstimation() error {
	if a.State() == Active {
		return nil
	}
	if a.Toggle() != Active {
		return errors.New("failed to activate pose estimation")
	}
	return nil
}

// StopPoseEstimation deactivates the scheduler if it is active.
func (a *App) StopPoseEstimation() {
	if a.State() == Active {
		a.Toggle()
	}
}

// LoadCameras releases any held streams, enumerates available devices,
// probes their details and acquires a stream for each. Probe and
// acquisition failures are logged per device and do not abort the batch.
func (a *App) LoadCameras() ([]device.CameraDevice, error) {
	a.manager.ReleaseAll()

	devices, err := a.registry.List()
	if err != nil {
		return nil, err
	}

	for i := range devices {
		if err := a.registry.ProbeDetails(&devices[i]); err != nil {
			log.Printf("Failed to probe camera %s: %v", devices[i].DeviceID, err)
		}
	}

	streams := a.manager.AcquireAll(devices)
	log.Printf("Loaded %d of %d cameras", len(streams), len(devices))

	return devices, nil
}

// StartRecording clears the landmark history, mints a new capture session
// ID and activates pose estimation. Returns the session ID.
func (a *App) StartRecording() (string, error) {
	a.history.Clear()

	a.mu.Lock()
	a.sessionID = uuid.NewString()
	a.poseData = make(map[string]map[string]pose.Landmark)
	sessionID := a.sessionID
	a.mu.Unlock()

	if err := a.StartPoseEstimation(); err != nil {
		return "", err
	}

	log.Printf("Recording session %s started", sessionID)
	return sessionID, nil
}

// StopAll deactivates the scheduler and releases every held stream.
func (a *App) StopAll() {
	a.StopPoseEstimation()
	a.manager.ReleaseAll()
}

// Close tears down the pipeline: stops everything and closes the model
// pool. The pool instances live until this point.
func (a *App) Close() {
	a.StopAll()
	if err := a.pool.Close(); err != nil {
		log.Printf("Error closing model pool: %v", err)
	}
}

// Snapshot returns a copy of the landmark history recorded so far.
func (a *App) Snapshot() []pose.Frame {
	return a.history.Snapshot()
}

// ClearHistory empties the landmark history.
func (a *App) ClearHistory() {
	a.history.Clear()
}

// HistoryLen returns the number of recorded landmark frames.
func (a *App) HistoryLen() int {
	return a.history.Len()
}

// SessionID returns the current capture session ID, empty before the first
// recording.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// PoseData returns a copy of the per-device named-landmark map.
func (a *App) PoseData() map[string]map[string]pose.Landmark {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data := make(map[string]map[string]pose.Landmark, len(a.poseData))
	for deviceID, named := range a.poseData {
		record := make(map[string]pose.Landmark, len(named))
		for name, lm := range named {
			record[name] = lm
		}
		data[deviceID] = record
	}
	return data
}

// History returns the landmark history buffer.
func (a *App) History() *history.History {
	return a.history
}

// Manager returns the stream manager.
func (a *App) Manager() *capture.Manager {
	return a.manager
}

// Registry returns the device registry.
func (a *App) Registry() *device.Registry {
	return a.registry
}

// Pool returns the model pool.
func (a *App) Pool() *pose.Pool {
	return a.pool
}

func (a *App) recordPoseData(deviceID string, landmarks []pose.Landmark) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.poseData[deviceID] = pose.Named(landmarks)
}
