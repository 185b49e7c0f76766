package pose

import (
	"encoding/json"
	"testing"
)

func TestPoseConnections_IndicesInRange(t *testing.T) {
	for i, conn := range PoseConnections {
		for _, idx := range conn {
			if idx < 0 || idx >= NumPoseLandmarks {
				t.Errorf("connection %d references landmark %d, out of range [0,%d)", i, idx, NumPoseLandmarks)
			}
		}
		if conn[0] == conn[1] {
			t.Errorf("connection %d links landmark %d to itself", i, conn[0])
		}
	}
}

func TestPoseLandmarkNames_Complete(t *testing.T) {
	for i, name := range PoseLandmarkNames {
		if name == "" {
			t.Errorf("landmark %d has no name", i)
		}
	}

	// Spot-check the convention.
	if PoseLandmarkNames[Nose] != "nose" {
		t.Errorf("PoseLandmarkNames[Nose] = %q, want %q", PoseLandmarkNames[Nose], "nose")
	}
	if PoseLandmarkNames[LeftShoulder] != "left_shoulder" {
		t.Errorf("PoseLandmarkNames[LeftShoulder] = %q, want %q", PoseLandmarkNames[LeftShoulder], "left_shoulder")
	}
	if PoseLandmarkNames[RightFootIndex] != "right_foot_index" {
		t.Errorf("PoseLandmarkNames[RightFootIndex] = %q, want %q", PoseLandmarkNames[RightFootIndex], "right_foot_index")
	}
}

func TestNamed(t *testing.T) {
	frame := UprightPoseFrame()

	named := Named(frame.PoseLandmarks)
	if len(named) != NumPoseLandmarks {
		t.Fatalf("Named() returned %d entries, want %d", len(named), NumPoseLandmarks)
	}

	nose, ok := named["nose"]
	if !ok {
		t.Fatal("Named() should contain the nose landmark")
	}
	if nose != frame.PoseLandmarks[Nose] {
		t.Errorf("named[nose] = %+v, want %+v", nose, frame.PoseLandmarks[Nose])
	}
}

func TestNamed_PartialAndOversized(t *testing.T) {
	// Short input yields only the covered names.
	named := Named([]Landmark{{X: 0.5}, {X: 0.6}})
	if len(named) != 2 {
		t.Errorf("Named() on 2 landmarks returned %d entries, want 2", len(named))
	}

	// Input longer than the convention is truncated.
	long := make([]Landmark, NumPoseLandmarks+5)
	if got := len(Named(long)); got != NumPoseLandmarks {
		t.Errorf("Named() on oversized input returned %d entries, want %d", got, NumPoseLandmarks)
	}

	if got := len(Named(nil)); got != 0 {
		t.Errorf("Named(nil) returned %d entries, want 0", got)
	}
}

func TestFrame_HasPose(t *testing.T) {
	var nilFrame *Frame
	if nilFrame.HasPose() {
		t.Error("nil frame should not report a pose")
	}

	empty := &Frame{}
	if empty.HasPose() {
		t.Error("empty frame should not report a pose")
	}

	if !UprightPoseFrame().HasPose() {
		t.Error("fixture frame should report a pose")
	}
}

func TestFrame_JSONShape(t *testing.T) {
	frame := Frame{
		PoseLandmarks: []Landmark{{X: 0.5, Y: 0.25, Z: -0.1, Visibility: 0.9}},
		FaceLandmarks: []Landmark{},
	}

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"faceLandmarks", "poseLandmarks", "leftHandLandmarks", "rightHandLandmarks"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("serialized frame missing %q", key)
		}
	}

	points, ok := decoded["poseLandmarks"].([]any)
	if !ok || len(points) != 1 {
		t.Fatalf("poseLandmarks should serialize as an array of one point")
	}
	point := points[0].(map[string]any)
	for _, key := range []string{"x", "y", "z", "visibility"} {
		if _, ok := point[key]; !ok {
			t.Errorf("serialized landmark missing %q", key)
		}
	}
}

func TestUprightPoseFrame(t *testing.T) {
	frame := UprightPoseFrame()

	if len(frame.PoseLandmarks) != NumPoseLandmarks {
		t.Fatalf("fixture has %d pose landmarks, want %d", len(frame.PoseLandmarks), NumPoseLandmarks)
	}
	for i, lm := range frame.PoseLandmarks {
		if lm.X < 0 || lm.X > 1 || lm.Y < 0 || lm.Y > 1 {
			t.Errorf("landmark %d (%s) outside normalized range: %+v", i, PoseLandmarkNames[i], lm)
		}
		if lm.Visibility <= 0 {
			t.Errorf("landmark %d (%s) should be visible", i, PoseLandmarkNames[i])
		}
	}

	// Upright: head above hips, hips above ankles (Y grows downward).
	if frame.PoseLandmarks[Nose].Y >= frame.PoseLandmarks[LeftHip].Y {
		t.Error("fixture nose should be above the hips")
	}
	if frame.PoseLandmarks[LeftHip].Y >= frame.PoseLandmarks[LeftAnkle].Y {
		t.Error("fixture hips should be above the ankles")
	}
}
