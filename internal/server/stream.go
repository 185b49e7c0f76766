package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/render"
	"gocv.io/x/gocv"
)

// StreamHandler serves per-camera MJPEG with the pose overlay drawn on
// every frame. Routed as /api/stream/{deviceID}.
type StreamHandler struct {
	app *app.App
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(a *app.App) *StreamHandler {
	return &StreamHandler{app: a}
}

// ServeHTTP streams MJPEG frames for one device to the client.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deviceID := strings.TrimPrefix(r.URL.Path, "/api/stream/")
	stream, ok := h.app.Manager().Stream(deviceID)
	if !ok {
		http.Error(w, "Unknown camera", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		if stream.Released() || !stream.Source().Ready() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		frame, err := stream.Source().ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if latest, _ := stream.Latest(); latest != nil {
			render.DrawOverlay(frame, latest)
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// GridHandler serves one composed mosaic JPEG of all active streams.
type GridHandler struct {
	app *app.App
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(a *app.App) *GridHandler {
	return &GridHandler{app: a}
}

// ServeHTTP composes and serves the grid snapshot. A missing render target
// is non-fatal: logged and answered with 204.
func (h *GridHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mosaic, err := render.Grid(h.app.Manager().Streams())
	defer mosaic.Close()
	if err != nil {
		if errors.Is(err, render.ErrNoStreams) {
			log.Printf("Grid requested with no active streams")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	buf, err := gocv.IMEncode(".jpg", mosaic)
	if err != nil {
		http.Error(w, "Failed to encode grid", http.StatusInternalServerError)
		return
	}
	defer buf.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(buf.GetBytes())
}
