// Package pose provides holistic landmark types and pose estimation for the
// Mudra multi-camera capture pipeline.
package pose

// Pose landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32

	NumPoseLandmarks = 33
)

// NumHandLandmarks is the number of landmarks per detected hand.
const NumHandLandmarks = 21

// PoseLandmarkNames maps pose landmark indices to their MediaPipe names.
var PoseLandmarkNames = [NumPoseLandmarks]string{
	"nose",
	"left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear",
	"mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_pinky", "right_pinky",
	"left_index", "right_index",
	"left_thumb", "right_thumb",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
	"left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

// PoseConnections is the skeleton topology drawn between pose landmarks.
// Each pair is a connector line segment between two landmark indices.
var PoseConnections = [][2]int{
	{Nose, LeftEyeInner}, {LeftEyeInner, LeftEye}, {LeftEye, LeftEyeOuter},
	{LeftEyeOuter, LeftEar},
	{Nose, RightEyeInner}, {RightEyeInner, RightEye}, {RightEye, RightEyeOuter},
	{RightEyeOuter, RightEar},
	{MouthLeft, MouthRight},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{LeftWrist, LeftPinky}, {LeftWrist, LeftIndex}, {LeftWrist, LeftThumb},
	{LeftPinky, LeftIndex},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{RightWrist, RightPinky}, {RightWrist, RightIndex}, {RightWrist, RightThumb},
	{RightPinky, RightIndex},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee}, {RightHip, RightKnee},
	{LeftKnee, LeftAnkle}, {RightKnee, RightAnkle},
	{LeftAnkle, LeftHeel}, {RightAnkle, RightHeel},
	{LeftHeel, LeftFootIndex}, {RightHeel, RightFootIndex},
	{LeftAnkle, LeftFootIndex}, {RightAnkle, RightFootIndex},
}

// Landmark is a normalized point with an optional visibility score.
// X and Y are in [0,1] relative to the frame; Z is depth relative to the
// hip midpoint. Visibility is 0 for regions that do not report it.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame holds one inference result across all holistic regions. Regions that
// were not detected are empty slices. A Frame is never mutated after it is
// recorded.
type Frame struct {
	FaceLandmarks      []Landmark `json:"faceLandmarks"`
	PoseLandmarks      []Landmark `json:"poseLandmarks"`
	LeftHandLandmarks  []Landmark `json:"leftHandLandmarks"`
	RightHandLandmarks []Landmark `json:"rightHandLandmarks"`
}

// HasPose reports whether the frame carries body pose landmarks.
func (f *Frame) HasPose() bool {
	return f != nil && len(f.PoseLandmarks) > 0
}

// Named derives the named-landmark record used in the per-device pose-data
// map, keyed by the MediaPipe pose landmark names. Landmarks beyond the
// known 33 are ignored.
func Named(landmarks []Landmark) map[string]Landmark {
	named := make(map[string]Landmark, NumPoseLandmarks)
	for i, lm := range landmarks {
		if i >= NumPoseLandmarks {
			break
		}
		named[PoseLandmarkNames[i]] = lm
	}
	return named
}
