package pose

import "gocv.io/x/gocv"

// Estimator defines the interface for holistic pose estimation
// implementations. At most one Estimate call may be in flight per instance;
// implementations serialize concurrent callers.
type Estimator interface {
	// Estimate analyzes a video frame and returns the detected landmark
	// regions. Regions with no detection come back empty, not nil error.
	Estimate(frame *gocv.Mat) (*Frame, error)

	// Close releases any resources held by the estimator.
	Close() error
}

// Config holds configuration options for holistic pose estimation.
type Config struct {
	// ModelComplexity selects the landmark model (0, 1 or 2).
	ModelComplexity int

	// SmoothLandmarks enables temporal filtering across frames.
	SmoothLandmarks bool

	// MinDetectionConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ModelComplexity:        1,
		SmoothLandmarks:        true,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}
