package e2e

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/device"
	"github.com/ayusman/mudra/internal/pose"
	"github.com/ayusman/mudra/internal/server"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	registry := device.NewRegistryWithOpener(3, device.MockOpener(map[int]*device.MockHandle{
		0: {Width: 640, Height: 480, FrameRate: 30},
		1: {Width: 1280, Height: 720, FrameRate: 30},
	}, errors.New("no such device")))

	application := app.New(app.Config{
		Registry: registry,
		Manager: capture.NewManager(func(dev device.CameraDevice) capture.Source {
			return capture.NewMockSource(dev.DeviceID)
		}),
		Factory: func() (pose.Estimator, error) {
			est := pose.NewMockEstimator()
			est.SetFrame(pose.UprightPoseFrame())
			return est, nil
		},
		MinInterval: 20 * time.Millisecond,
	})
	defer application.Close()

	srv := server.New(server.Config{App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("LoadCameras", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/cameras/load", "application/json", nil)
		if err != nil {
			t.Fatalf("load cameras error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var devices []device.CameraDevice
		if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(devices) != 2 {
			t.Fatalf("loaded %d devices, want 2", len(devices))
		}
		if devices[1].Resolution() != "1280x720" {
			t.Errorf("device 1 resolution = %q, want probed 1280x720", devices[1].Resolution())
		}
	})

	var sessionID string
	t.Run("StartRecording", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/recording/start", "application/json", nil)
		if err != nil {
			t.Fatalf("start recording error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		sessionID = body["sessionId"]
		if sessionID == "" {
			t.Fatal("recording should return a session ID")
		}
	})

	// Let the scheduler run a few ticks.
	time.Sleep(100 * time.Millisecond)

	t.Run("History", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/history")
		if err != nil {
			t.Fatalf("get history error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			SessionID string       `json:"sessionId"`
			Frames    []pose.Frame `json:"frames"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if body.SessionID != sessionID {
			t.Errorf("history session = %q, want %q", body.SessionID, sessionID)
		}
		if len(body.Frames) == 0 {
			t.Fatal("history should contain recorded frames")
		}
		if len(body.Frames[0].PoseLandmarks) != pose.NumPoseLandmarks {
			t.Errorf("frame has %d pose landmarks, want %d",
				len(body.Frames[0].PoseLandmarks), pose.NumPoseLandmarks)
		}
	})

	t.Run("StopAll", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/stop", "application/json", nil)
		if err != nil {
			t.Fatalf("stop error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if application.State() != app.Idle {
			t.Error("stop should leave the scheduler idle")
		}
	})

	t.Run("ClearHistory", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/history", nil)
		if err != nil {
			t.Fatalf("build request error = %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("clear history error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}
		if application.HistoryLen() != 0 {
			t.Error("history should be empty after clear")
		}
	})
}
