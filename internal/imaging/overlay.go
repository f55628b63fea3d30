package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// Overlay renders segmentation results onto a copy of the source image for
// debugging: the located answer-grid region as a rectangle and the column
// split as a vertical line.
//
// Parameters:
//   - img: Source image. Not modified.
//   - region: Located answer-grid region in source coordinates.
//   - splitX: Split column in source coordinates. Ignored when negative.
//
// Returns the annotated image encoded as PNG.
func Overlay(img image.Image, region image.Rectangle, splitX int) ([]byte, error) {
	regionColor, err := annotationColor("#00c853")
	if err != nil {
		return nil, err
	}
	splitColor, err := annotationColor("#2962ff")
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	drawRect(result, region, regionColor)

	if splitX >= 0 {
		drawVLine(result, splitX, region.Min.Y, region.Max.Y, splitColor)
	}

	return EncodePNG(result)
}

// annotationColor parses a hex annotation color into an opaque RGBA value.
func annotationColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid annotation color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setIfInside(img, x, r.Min.Y, c)
		setIfInside(img, x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setIfInside(img, r.Min.X, y, c)
		setIfInside(img, r.Max.X-1, y, c)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		setIfInside(img, x, y, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}
