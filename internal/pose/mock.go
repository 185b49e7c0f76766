package pose

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockEstimator is a test implementation of the Estimator interface.
// It allows tests to control the estimation results.
type MockEstimator struct {
	mu    sync.Mutex
	frame *Frame
	err   error
	calls int
}

// NewMockEstimator creates a new MockEstimator instance.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// SetFrame sets the frame that will be returned by Estimate.
func (m *MockEstimator) SetFrame(frame *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = frame
}

// SetError sets the error that will be returned by Estimate.
func (m *MockEstimator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Estimate calls made so far.
func (m *MockEstimator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Estimate returns the pre-configured frame or error.
func (m *MockEstimator) Estimate(frame *gocv.Mat) (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.frame != nil {
		return m.frame, nil
	}
	return &Frame{
		FaceLandmarks:      []Landmark{},
		PoseLandmarks:      []Landmark{},
		LeftHandLandmarks:  []Landmark{},
		RightHandLandmarks: []Landmark{},
	}, nil
}

// Close is a no-op for the mock estimator.
func (m *MockEstimator) Close() error {
	return nil
}

// UprightPoseFrame returns a preset Frame representing a person standing
// upright facing the camera, with plausible normalized coordinates for all
// 33 pose landmarks. Hands and face are left empty.
func UprightPoseFrame() *Frame {
	coords := [NumPoseLandmarks][3]float64{
		{0.50, 0.12, -0.30}, // nose
		{0.52, 0.10, -0.28}, // left_eye_inner
		{0.53, 0.10, -0.28}, // left_eye
		{0.54, 0.10, -0.28}, // left_eye_outer
		{0.48, 0.10, -0.28}, // right_eye_inner
		{0.47, 0.10, -0.28}, // right_eye
		{0.46, 0.10, -0.28}, // right_eye_outer
		{0.56, 0.11, -0.15}, // left_ear
		{0.44, 0.11, -0.15}, // right_ear
		{0.52, 0.15, -0.25}, // mouth_left
		{0.48, 0.15, -0.25}, // mouth_right
		{0.62, 0.25, -0.10}, // left_shoulder
		{0.38, 0.25, -0.10}, // right_shoulder
		{0.66, 0.38, -0.08}, // left_elbow
		{0.34, 0.38, -0.08}, // right_elbow
		{0.68, 0.50, -0.12}, // left_wrist
		{0.32, 0.50, -0.12}, // right_wrist
		{0.69, 0.54, -0.14}, // left_pinky
		{0.31, 0.54, -0.14}, // right_pinky
		{0.70, 0.53, -0.16}, // left_index
		{0.30, 0.53, -0.16}, // right_index
		{0.68, 0.52, -0.13}, // left_thumb
		{0.32, 0.52, -0.13}, // right_thumb
		{0.58, 0.52, 0.00},  // left_hip
		{0.42, 0.52, 0.00},  // right_hip
		{0.57, 0.70, 0.02},  // left_knee
		{0.43, 0.70, 0.02},  // right_knee
		{0.56, 0.88, 0.10},  // left_ankle
		{0.44, 0.88, 0.10},  // right_ankle
		{0.56, 0.92, 0.12},  // left_heel
		{0.44, 0.92, 0.12},  // right_heel
		{0.57, 0.95, 0.02},  // left_foot_index
		{0.43, 0.95, 0.02},  // right_foot_index
	}

	landmarks := make([]Landmark, NumPoseLandmarks)
	for i, c := range coords {
		landmarks[i] = Landmark{X: c[0], Y: c[1], Z: c[2], Visibility: 0.95}
	}

	return &Frame{
		FaceLandmarks:      []Landmark{},
		PoseLandmarks:      landmarks,
		LeftHandLandmarks:  []Landmark{},
		RightHandLandmarks: []Landmark{},
	}
}
