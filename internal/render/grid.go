package render

import (
	"errors"
	"image"

	"github.com/ayusman/mudra/internal/capture"
	"gocv.io/x/gocv"
)

// ErrNoStreams is returned when there is nothing to compose into a grid.
var ErrNoStreams = errors.New("no active streams to render")

// Tile dimensions for the composed grid.
const (
	TileWidth  = 480
	TileHeight = 360
)

// Grid composes the current frame of every ready stream, with its pose
// overlay, into one mosaic image. Streams without data this instant are
// skipped. The caller owns the returned Mat and must close it.
func Grid(streams []*capture.ActiveStream) (gocv.Mat, error) {
	var tiles []gocv.Mat
	defer func() {
		for i := range tiles {
			tiles[i].Close()
		}
	}()

	for _, stream := range streams {
		if stream.Released() || !stream.Source().Ready() {
			continue
		}

		frame, err := stream.Source().ReadFrame()
		if err != nil {
			continue
		}

		if latest, _ := stream.Latest(); latest != nil {
			DrawOverlay(frame, latest)
		}

		tile := gocv.NewMat()
		gocv.Resize(*frame, &tile, image.Pt(TileWidth, TileHeight), 0, 0, gocv.InterpolationLinear)
		frame.Close()

		tiles = append(tiles, tile)
	}

	if len(tiles) == 0 {
		return gocv.NewMat(), ErrNoStreams
	}

	cols := gridColumns(len(tiles))
	rows := (len(tiles) + cols - 1) / cols

	mosaic := gocv.NewMatWithSize(rows*TileHeight, cols*TileWidth, gocv.MatTypeCV8UC3)

	for i := range tiles {
		x := (i % cols) * TileWidth
		y := (i / cols) * TileHeight

		region := mosaic.Region(image.Rect(x, y, x+TileWidth, y+TileHeight))
		tiles[i].CopyTo(&region)
		region.Close()
	}

	return mosaic, nil
}

// gridColumns picks the narrowest column count whose square covers n tiles.
func gridColumns(n int) int {
	cols := 1
	for cols*cols < n {
		cols++
	}
	return cols
}
