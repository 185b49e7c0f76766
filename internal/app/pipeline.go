package app

import (
	"log"
	"time"
)

// runLoop is the rate-limited scheduling loop. One loop instance exists per
// activation; flipping the toggle to Idle is the only cancellation signal.
// An inference call that is already in progress when the flip happens still
// completes and may append one more result before the loop observes Idle.
//
// Loop logic:
// 1. Wait for the next tick, at least minInterval after the previous one
// 2. Process every registered stream once, in registration order
// 3. A stream whose source has insufficient data is skipped this tick
// 4. Per-stream inference errors are logged and isolated; the loop goes on
// 5. Stop the first time the scheduler state reads Idle
//
// Ticks never overlap: all per-tick work runs inline on this goroutine
// before the next ticker receive.
func (a *App) runLoop(stop chan struct{}) {
	ticker := time.NewTicker(a.minInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if a.State() != Active {
				return
			}
			a.tick()
		}
	}
}

// tick runs one inference pass over the active streams. Each stream is
// routed through its round-robin assigned model instance; the call is
// awaited to completion before the next stream is processed, so an instance
// shared by several streams never sees overlapping calls within a tick.
func (a *App) tick() {
	for i, stream := range a.manager.Streams() {
		if stream.Released() || !stream.Source().Ready() {
			continue
		}

		frame, err := stream.Source().ReadFrame()
		if err != nil {
			log.Printf("Error reading frame from camera %s: %v", stream.DeviceID, err)
			continue
		}

		est := a.pool.Assign(i)
		if est == nil {
			frame.Close()
			continue
		}

		result, err := est.Estimate(frame)
		frame.Close()

		if err != nil {
			log.Printf("Pose estimation failed for camera %s: %v", stream.DeviceID, err)
			continue
		}

		stream.SetLatest(result)

		if result.HasPose() {
			a.recordPoseData(stream.DeviceID, result.PoseLandmarks)
			a.history.Append(*result)
		}
	}
}
