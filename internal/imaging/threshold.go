package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// BinaryMap is a per-pixel foreground/background classification of an image
// region. Foreground pixels are the locally dark marks (pencil, ink, printed
// grid lines); background is paper.
//
// A BinaryMap is owned by the computation that produced it and is never
// shared between goroutines.
type BinaryMap struct {
	// Width of the map in pixels.
	Width int

	// Height of the map in pixels.
	Height int

	bits []bool
}

// NewBinaryMap creates an all-background map of the given dimensions.
func NewBinaryMap(width, height int) *BinaryMap {
	return &BinaryMap{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// At reports whether the pixel at (x, y) is foreground.
// Coordinates outside the map are background.
func (m *BinaryMap) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Set marks the pixel at (x, y) as foreground or background.
// Out-of-range coordinates are ignored.
func (m *BinaryMap) Set(x, y int, foreground bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.bits[y*m.Width+x] = foreground
}

// Crop returns a copy of the sub-map covered by r, which must lie within
// the map. The original map is not modified.
func (m *BinaryMap) Crop(r image.Rectangle) (*BinaryMap, error) {
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > m.Width || r.Max.Y > m.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside map bounds %dx%d",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, m.Width, m.Height)
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid crop region: width and height must be positive")
	}

	sub := NewBinaryMap(r.Dx(), r.Dy())
	for y := 0; y < sub.Height; y++ {
		for x := 0; x < sub.Width; x++ {
			sub.Set(x, y, m.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return sub, nil
}

// AdaptiveThreshold converts an image region to a BinaryMap.
//
// A pixel is classified as foreground iff its intensity is lower than the
// Gaussian-weighted mean of its local neighborhood minus the bias constant c.
// Because the threshold is local, marks remain separable from paper even
// under the uneven lighting typical of phone photographs.
//
// Parameters:
//   - img: Source image region (color or grayscale).
//   - blockSize: Neighborhood window size in pixels. Must be odd and > 1.
//     Typical: 11-15 for photographed sheets.
//   - c: Bias subtracted from the local mean. Higher values require marks to
//     be darker relative to their surroundings. Typical: 8-10.
//
// Returns:
//   - *BinaryMap: Foreground/background classification, same dimensions as img.
//   - error: Non-nil if blockSize is invalid.
//
// # Algorithm
//
//  1. Grayscale conversion via luminance weighting.
//  2. Gaussian blur with a radius derived from blockSize, producing the
//     weighted local mean for every pixel in one pass.
//  3. Per-pixel comparison: foreground iff gray(x,y) < mean(x,y) - c.
//
// Neighborhood windows are clamped at image borders by the blur kernel;
// results are deterministic for a given input.
func AdaptiveThreshold(img image.Image, blockSize int, c float64) (*BinaryMap, error) {
	if blockSize <= 1 || blockSize%2 == 0 {
		return nil, fmt.Errorf("blockSize must be odd and greater than 1, got %d", blockSize)
	}

	gray := effect.Grayscale(img)

	// The blur radius spans half the neighborhood window, so the weighted
	// mean covers roughly blockSize pixels around each location.
	mean := blur.Gaussian(gray, float64(blockSize)/2)

	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	bm := NewBinaryMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g, _, _, _ := gray.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			m, _, _, _ := mean.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			bm.Set(x, y, float64(g>>8) < float64(m>>8)-c)
		}
	}
	return bm, nil
}
