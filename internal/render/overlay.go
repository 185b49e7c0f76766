// Package render draws pose overlays and stream mosaics. It is purely
// presentational; nothing drawn here is persisted.
package render

import (
	"image"
	"image/color"

	"github.com/ayusman/mudra/internal/pose"
	"gocv.io/x/gocv"
)

// Overlay drawing style.
var (
	connectorColor = color.RGBA{R: 0, G: 220, B: 120, A: 255}
	poseColor      = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	handColor      = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	faceColor      = color.RGBA{R: 220, G: 220, B: 80, A: 255}
)

const (
	connectorThickness = 2
	pointRadius        = 3
	facePointRadius    = 1
)

// DrawOverlay draws the landmark frame onto the image: skeleton connector
// segments between pose landmarks plus point markers for every detected
// region. Normalized [0,1] coordinates are scaled to the image dimensions.
// A nil or empty frame leaves the image untouched.
func DrawOverlay(img *gocv.Mat, frame *pose.Frame) {
	if img == nil || img.Empty() || frame == nil {
		return
	}

	width := img.Cols()
	height := img.Rows()

	for _, conn := range pose.PoseConnections {
		if conn[0] >= len(frame.PoseLandmarks) || conn[1] >= len(frame.PoseLandmarks) {
			continue
		}
		from := scalePoint(frame.PoseLandmarks[conn[0]], width, height)
		to := scalePoint(frame.PoseLandmarks[conn[1]], width, height)
		gocv.Line(img, from, to, connectorColor, connectorThickness)
	}

	drawPoints(img, frame.PoseLandmarks, poseColor, pointRadius)
	drawPoints(img, frame.LeftHandLandmarks, handColor, pointRadius)
	drawPoints(img, frame.RightHandLandmarks, handColor, pointRadius)
	drawPoints(img, frame.FaceLandmarks, faceColor, facePointRadius)
}

func drawPoints(img *gocv.Mat, landmarks []pose.Landmark, c color.RGBA, radius int) {
	width := img.Cols()
	height := img.Rows()

	for _, lm := range landmarks {
		gocv.Circle(img, scalePoint(lm, width, height), radius, c, -1)
	}
}

func scalePoint(lm pose.Landmark, width, height int) image.Point {
	return image.Pt(int(lm.X*float64(width)), int(lm.Y*float64(height)))
}
