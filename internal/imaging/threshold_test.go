package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createMarkedImage creates a white image with a small black mark at (mx, my)
func createMarkedImage(width, height, mx, my, markSize int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for dy := 0; dy < markSize; dy++ {
		for dx := 0; dx < markSize; dx++ {
			img.Set(mx+dx, my+dy, color.Black)
		}
	}
	return img
}

func TestAdaptiveThreshold_MarkIsForeground(t *testing.T) {
	img := createMarkedImage(100, 100, 48, 48, 4)

	bm, err := AdaptiveThreshold(img, 15, 10)
	if err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}

	if bm.Width != 100 || bm.Height != 100 {
		t.Fatalf("map dimensions = %dx%d, want 100x100", bm.Width, bm.Height)
	}
	if !bm.At(49, 49) {
		t.Error("mark center not classified as foreground")
	}
	if bm.At(10, 10) {
		t.Error("plain paper far from the mark classified as foreground")
	}
}

func TestAdaptiveThreshold_UniformImage(t *testing.T) {
	for _, tt := range []struct {
		name string
		fill color.Color
	}{
		{"white", color.White},
		{"gray", color.Gray{Y: 128}},
		{"black", color.Black},
	} {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(60, 60, tt.fill)

			bm, err := AdaptiveThreshold(img, 11, 8)
			if err != nil {
				t.Fatalf("AdaptiveThreshold failed: %v", err)
			}

			// A uniform image has no locally dark pixels, whatever its level.
			for y := 0; y < bm.Height; y++ {
				for x := 0; x < bm.Width; x++ {
					if bm.At(x, y) {
						t.Fatalf("pixel (%d,%d) foreground on uniform image", x, y)
					}
				}
			}
		})
	}
}

func TestAdaptiveThreshold_Deterministic(t *testing.T) {
	img := createMarkedImage(80, 80, 30, 40, 5)

	first, err := AdaptiveThreshold(img, 15, 10)
	if err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}
	second, err := AdaptiveThreshold(img, 15, 10)
	if err != nil {
		t.Fatalf("AdaptiveThreshold failed: %v", err)
	}

	for y := 0; y < first.Height; y++ {
		for x := 0; x < first.Width; x++ {
			if first.At(x, y) != second.At(x, y) {
				t.Fatalf("classification differs between runs at (%d,%d)", x, y)
			}
		}
	}
}

func TestAdaptiveThreshold_InvalidBlockSize(t *testing.T) {
	img := createTestImage(20, 20, color.White)

	for _, blockSize := range []int{0, 1, 2, 14} {
		if _, err := AdaptiveThreshold(img, blockSize, 10); err == nil {
			t.Errorf("blockSize %d accepted, want error", blockSize)
		}
	}
}

func TestBinaryMap_Crop(t *testing.T) {
	bm := NewBinaryMap(10, 10)
	bm.Set(3, 4, true)
	bm.Set(9, 9, true)

	sub, err := bm.Crop(image.Rect(2, 2, 6, 6))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if sub.Width != 4 || sub.Height != 4 {
		t.Fatalf("sub dimensions = %dx%d, want 4x4", sub.Width, sub.Height)
	}
	if !sub.At(1, 2) {
		t.Error("foreground pixel lost in crop")
	}
	if sub.At(3, 3) {
		t.Error("unexpected foreground pixel in crop")
	}

	if _, err := bm.Crop(image.Rect(5, 5, 12, 12)); err == nil {
		t.Error("out-of-bounds crop accepted, want error")
	}
}
