package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/device"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	useTray := flag.Bool("tray", false, "run with the system tray UI")
	flag.Parse()

	fmt.Println("Mudra - Multi-Camera Pose Capture")

	cfg := config.Load()

	a := app.New(app.Config{
		Registry: device.NewRegistry(cfg.MaxDevices),
		Manager: capture.NewManager(capture.DefaultFactory(
			cfg.FrameWidth, cfg.FrameHeight, cfg.FrameRate)),
		PoolSize:    cfg.PoolSize,
		MinInterval: cfg.MinInterval,
	})
	defer a.Close()

	// Find web directory if none configured
	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	srv := server.New(server.Config{
		App:       a,
		StaticDir: staticDir,
	})

	if !*useTray {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(func(active bool) {
		if active {
			if _, err := a.LoadCameras(); err != nil {
				log.Printf("Failed to load cameras: %v", err)
			}
			if err := a.StartPoseEstimation(); err != nil {
				log.Printf("Failed to start pose estimation: %v", err)
			}
		} else {
			a.StopPoseEstimation()
		}
	})
	t.OnRecord(func() {
		sessionID, err := a.StartRecording()
		if err != nil {
			log.Printf("Failed to start recording: %v", err)
			return
		}
		t.SetSession(sessionID)
	})
	t.OnClear(func() {
		a.ClearHistory()
	})
	t.OnQuit(func() {
		a.StopAll()
	})

	// Blocks until quit
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
