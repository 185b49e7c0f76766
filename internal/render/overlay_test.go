package render

import (
	"testing"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/device"
	"github.com/ayusman/mudra/internal/pose"
	"gocv.io/x/gocv"
)

func TestDrawOverlay(t *testing.T) {
	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	before := img.Sum()
	DrawOverlay(&img, pose.UprightPoseFrame())
	after := img.Sum()

	if before.Val1 == after.Val1 && before.Val2 == after.Val2 && before.Val3 == after.Val3 {
		t.Error("drawing a pose overlay should change the image")
	}
}

func TestDrawOverlay_NilAndEmptyInputs(t *testing.T) {
	// None of these may panic.
	DrawOverlay(nil, pose.UprightPoseFrame())

	empty := gocv.NewMat()
	defer empty.Close()
	DrawOverlay(&empty, pose.UprightPoseFrame())

	img := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer img.Close()
	DrawOverlay(&img, nil)
	DrawOverlay(&img, &pose.Frame{})
}

func TestDrawOverlay_PartialPose(t *testing.T) {
	img := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer img.Close()

	// Fewer landmarks than the topology references: connectors out of
	// range are skipped without panicking.
	frame := &pose.Frame{
		PoseLandmarks: []pose.Landmark{
			{X: 0.5, Y: 0.1}, {X: 0.52, Y: 0.1}, {X: 0.54, Y: 0.1},
		},
	}
	DrawOverlay(&img, frame)
}

func TestGrid(t *testing.T) {
	factory := func(dev device.CameraDevice) capture.Source {
		return capture.NewMockSource(dev.DeviceID)
	}
	m := capture.NewManager(factory)
	m.AcquireAll([]device.CameraDevice{
		{DeviceID: "0", Label: "Built-in Camera"},
		{DeviceID: "1", Label: "Camera 1"},
	})
	defer m.ReleaseAll()

	for _, stream := range m.Streams() {
		stream.SetLatest(pose.UprightPoseFrame())
	}

	mosaic, err := Grid(m.Streams())
	defer mosaic.Close()
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}

	// Two tiles fit a 2x1 layout.
	if mosaic.Cols() != 2*TileWidth || mosaic.Rows() != TileHeight {
		t.Errorf("mosaic = %dx%d, want %dx%d", mosaic.Cols(), mosaic.Rows(), 2*TileWidth, TileHeight)
	}
}

func TestGrid_NoStreams(t *testing.T) {
	mosaic, err := Grid(nil)
	defer mosaic.Close()
	if err != ErrNoStreams {
		t.Fatalf("Grid(nil) error = %v, want ErrNoStreams", err)
	}
}

func TestGridColumns(t *testing.T) {
	tests := []struct {
		tiles int
		want  int
	}{
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 3},
		{9, 3},
		{10, 4},
	}

	for _, tt := range tests {
		if got := gridColumns(tt.tiles); got != tt.want {
			t.Errorf("gridColumns(%d) = %d, want %d", tt.tiles, got, tt.want)
		}
	}
}
