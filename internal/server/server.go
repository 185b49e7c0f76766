// Package server provides the HTTP surface for the Mudra pose capture
// pipeline.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/device"
)

// Config holds the server configuration.
type Config struct {
	App       *app.App
	StaticDir string
}

// Server exposes the capture pipeline to a host UI layer.
type Server struct {
	config Config
	app    *app.App
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		app:    config.App,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/cameras", s.handleCameras)
	s.mux.HandleFunc("/api/cameras/load", s.handleLoadCameras)
	s.mux.HandleFunc("/api/recording/start", s.handleStartRecording)
	s.mux.HandleFunc("/api/pose/start", s.handleStartPose)
	s.mux.HandleFunc("/api/pose/stop", s.handleStopPose)
	s.mux.HandleFunc("/api/stop", s.handleStopAll)
	s.mux.HandleFunc("/api/history", s.handleHistory)

	s.mux.Handle("/api/grid", NewGridHandler(s.app))
	s.mux.Handle("/api/stream/", NewStreamHandler(s.app))
	s.mux.Handle("/api/landmarks", NewLandmarksHandler(s.app))

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"status": "ok",
		"state":  s.app.State().String(),
		"uptime": time.Since(s.start).String(),
	})
}

// handleCameras returns the most recently enumerated device records.
func (s *Server) handleCameras(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices := s.app.Registry().Devices()
	if devices == nil {
		devices = []device.CameraDevice{}
	}
	writeJSON(w, devices)
}

// handleLoadCameras enumerates, probes and acquires all cameras.
// Enumeration failure is logged and answered with an empty list; the
// operation is non-fatal for the caller.
func (s *Server) handleLoadCameras(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	devices, err := s.app.LoadCameras()
	if err != nil {
		log.Printf("Failed to load cameras: %v", err)
		writeJSON(w, []device.CameraDevice{})
		return
	}
	writeJSON(w, devices)
}

// handleStartRecording clears history, starts a new capture session and
// activates pose estimation.
func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID, err := s.app.StartRecording()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"sessionId": sessionID})
}

func (s *Server) handleStartPose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.app.StartPoseEstimation(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"state": s.app.State().String()})
}

func (s *Server) handleStopPose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.app.StopPoseEstimation()
	writeJSON(w, map[string]string{"state": s.app.State().String()})
}

func (s *Server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.app.StopAll()
	writeJSON(w, map[string]string{"state": s.app.State().String()})
}

// handleHistory serves the landmark history snapshot on GET and clears the
// buffer on DELETE.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]any{
			"sessionId": s.app.SessionID(),
			"frames":    s.app.Snapshot(),
		})
	case http.MethodDelete:
		s.app.ClearHistory()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
