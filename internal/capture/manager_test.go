package capture

import (
	"errors"
	"testing"

	"github.com/ayusman/mudra/internal/device"
)

// mockFactory builds MockSources and remembers them by device ID.
func mockFactory(failing map[string]error) (SourceFactory, map[string]*MockSource) {
	sources := make(map[string]*MockSource)
	factory := func(dev device.CameraDevice) Source {
		src := NewMockSource(dev.DeviceID)
		if err, ok := failing[dev.DeviceID]; ok {
			src.SetOpenError(err)
		}
		sources[dev.DeviceID] = src
		return src
	}
	return factory, sources
}

func devicesWithIDs(ids ...string) []device.CameraDevice {
	devices := make([]device.CameraDevice, len(ids))
	for i, id := range ids {
		devices[i] = device.CameraDevice{DeviceID: id, Label: "Camera " + id}
	}
	return devices
}

func TestManager_Acquire(t *testing.T) {
	factory, _ := mockFactory(nil)
	m := NewManager(factory)

	stream, err := m.Acquire(device.CameraDevice{DeviceID: "0", Label: "Built-in Camera"})
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if stream.DeviceID != "0" {
		t.Errorf("stream.DeviceID = %q, want %q", stream.DeviceID, "0")
	}
	if !stream.Source().Ready() {
		t.Error("acquired stream source should be ready")
	}
	if len(m.Streams()) != 1 {
		t.Errorf("manager holds %d streams, want 1", len(m.Streams()))
	}
}

func TestManager_Acquire_DeviceUnavailable(t *testing.T) {
	factory, _ := mockFactory(map[string]error{"0": errors.New("device busy")})
	m := NewManager(factory)

	_, err := m.Acquire(device.CameraDevice{DeviceID: "0"})
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("Acquire() error = %v, want ErrDeviceUnavailable", err)
	}
	if len(m.Streams()) != 0 {
		t.Error("failed acquisition must not register a stream")
	}
}

func TestManager_AcquireAll(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		failing map[string]error
		want    []string
	}{
		{
			name: "all succeed",
			ids:  []string{"0", "1", "2"},
			want: []string{"0", "1", "2"},
		},
		{
			name:    "one bad device does not abort the batch",
			ids:     []string{"0", "1", "2"},
			failing: map[string]error{"1": errors.New("device busy")},
			want:    []string{"0", "2"},
		},
		{
			name:    "all fail",
			ids:     []string{"0", "1"},
			failing: map[string]error{"0": errors.New("busy"), "1": errors.New("busy")},
			want:    nil,
		},
		{
			name: "empty input",
			ids:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, _ := mockFactory(tt.failing)
			m := NewManager(factory)

			acquired := m.AcquireAll(devicesWithIDs(tt.ids...))

			if len(acquired) != len(tt.want) {
				t.Fatalf("AcquireAll() returned %d streams, want %d", len(acquired), len(tt.want))
			}
			if len(acquired) > len(tt.ids) {
				t.Error("acquired count must never exceed input length")
			}
			for i, id := range tt.want {
				if acquired[i].DeviceID != id {
					t.Errorf("acquired[%d].DeviceID = %q, want %q", i, acquired[i].DeviceID, id)
				}
			}

			// Registration order matches acquisition order.
			streams := m.Streams()
			for i, id := range tt.want {
				if streams[i].DeviceID != id {
					t.Errorf("streams[%d].DeviceID = %q, want %q", i, streams[i].DeviceID, id)
				}
			}
		})
	}
}

func TestActiveStream_Release_Idempotent(t *testing.T) {
	factory, sources := mockFactory(nil)
	m := NewManager(factory)

	stream, err := m.Acquire(device.CameraDevice{DeviceID: "0"})
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := stream.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := stream.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}

	if got := sources["0"].Closes(); got != 1 {
		t.Errorf("source closed %d times, want exactly 1", got)
	}
	if !stream.Released() {
		t.Error("stream should report released")
	}
}

func TestManager_ReleaseAll(t *testing.T) {
	factory, sources := mockFactory(nil)
	m := NewManager(factory)

	m.AcquireAll(devicesWithIDs("0", "1"))
	m.ReleaseAll()

	if len(m.Streams()) != 0 {
		t.Errorf("manager holds %d streams after ReleaseAll, want 0", len(m.Streams()))
	}
	for id, src := range sources {
		if src.Closes() != 1 {
			t.Errorf("source %s closed %d times, want 1", id, src.Closes())
		}
	}

	// Releasing with nothing held is a no-op.
	m.ReleaseAll()
}

func TestManager_Stream(t *testing.T) {
	factory, _ := mockFactory(nil)
	m := NewManager(factory)
	m.AcquireAll(devicesWithIDs("0", "1"))

	stream, ok := m.Stream("1")
	if !ok {
		t.Fatal("Stream(\"1\") should find the acquired stream")
	}
	if stream.DeviceID != "1" {
		t.Errorf("stream.DeviceID = %q, want %q", stream.DeviceID, "1")
	}

	if _, ok := m.Stream("9"); ok {
		t.Error("Stream(\"9\") should not find anything")
	}
}
