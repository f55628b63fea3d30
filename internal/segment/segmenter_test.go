package segment

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// newSheet creates a plain white sheet image.
func newSheet(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// fillDots stamps a grid of small black marks into the rectangle
// [x0,x1) x [y0,y1), spaced pitch pixels apart. Small marks survive
// adaptive thresholding the way real pencil bubbles do.
func fillDots(img *image.RGBA, x0, y0, x1, y1, pitch, size int) {
	for y := y0; y+size <= y1; y += pitch {
		for x := x0; x+size <= x1; x += pitch {
			for dy := 0; dy < size; dy++ {
				for dx := 0; dx < size; dx++ {
					img.Set(x+dx, y+dy, color.Black)
				}
			}
		}
	}
}

// drawRectOutline draws a 2px black rectangle outline.
func drawRectOutline(img *image.RGBA, x0, y0, x1, y1 int) {
	for t := 0; t < 2; t++ {
		for x := x0; x < x1; x++ {
			img.Set(x, y0+t, color.Black)
			img.Set(x, y1-1-t, color.Black)
		}
		for y := y0; y < y1; y++ {
			img.Set(x0+t, y, color.Black)
			img.Set(x1-1-t, y, color.Black)
		}
	}
}

// twoColumnSheet builds a 400x600 sheet with two dense answer columns
// separated by a clear vertical gap: left marks in x [50,180), right marks
// in x [220,350), both in y [200,494).
func twoColumnSheet() *image.RGBA {
	img := newSheet(400, 600)
	fillDots(img, 50, 200, 180, 494, 10, 4)
	fillDots(img, 220, 200, 350, 494, 10, 4)
	return img
}

func TestSegment_TwoColumnSheet(t *testing.T) {
	seg, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	blocks, err := seg.Segment(twoColumnSheet())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	left, right := blocks[0], blocks[1]

	if left.ID != 1 || right.ID != 2 {
		t.Errorf("block ordinals = %d, %d, want 1, 2", left.ID, right.ID)
	}
	if left.Side != SideLeft || right.Side != SideRight {
		t.Errorf("block sides = %q, %q", left.Side, right.Side)
	}
	if !left.Nonempty() || !right.Nonempty() {
		t.Fatal("segmentation produced an empty block")
	}

	// Blocks partition the located region exactly.
	if left.Region.X2 != right.Region.X1 {
		t.Errorf("gap or overlap between blocks: left ends at %d, right starts at %d",
			left.Region.X2, right.Region.X1)
	}
	if left.Region.Y1 != right.Region.Y1 || left.Region.Y2 != right.Region.Y2 {
		t.Error("block vertical extents differ")
	}

	// The split must fall inside the empty gap between the two mark columns.
	split := left.Region.X2
	if split <= 180 || split >= 220 {
		t.Errorf("split at x=%d, want inside the gap (180, 220)", split)
	}

	// Cropped pixel data matches the region dimensions.
	if left.Image.Bounds().Dx() != left.Region.Width() {
		t.Errorf("left image width %d != region width %d",
			left.Image.Bounds().Dx(), left.Region.Width())
	}
}

func TestSegment_BlankSheet(t *testing.T) {
	seg, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = seg.Segment(newSheet(400, 600))
	if !errors.Is(err, ErrNoRegionFound) {
		t.Errorf("blank sheet error = %v, want ErrNoRegionFound", err)
	}
}

func TestSegment_RegionTooSmall(t *testing.T) {
	img := newSheet(400, 600)
	// A single shallow band of marks, well below MinBlockHeight.
	fillDots(img, 50, 200, 350, 240, 10, 4)

	seg, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = seg.Segment(img)
	if !errors.Is(err, ErrRegionTooSmall) {
		t.Errorf("shallow sheet error = %v, want ErrRegionTooSmall", err)
	}
}

func TestSegment_ContourStrategy(t *testing.T) {
	img := newSheet(200, 260)
	// Outer border spanning the whole image must be excluded.
	drawRectOutline(img, 0, 0, 200, 260)
	// The answer-grid frame.
	drawRectOutline(img, 40, 60, 160, 220)

	opts := DefaultOptions()
	opts.Strategy = StrategyContour
	opts.MinBlockHeight = 50

	seg, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	blocks, err := seg.Segment(img)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	region := Region{
		X1: blocks[0].Region.X1,
		Y1: blocks[0].Region.Y1,
		X2: blocks[1].Region.X2,
		Y2: blocks[1].Region.Y2,
	}

	// The located region should match the inner frame, not the border.
	if region.X1 < 35 || region.X1 > 45 || region.X2 < 155 || region.X2 > 165 {
		t.Errorf("region x bounds = [%d, %d), want about [40, 160)", region.X1, region.X2)
	}
	if region.Y1 < 55 || region.Y1 > 65 || region.Y2 < 215 || region.Y2 > 225 {
		t.Errorf("region y bounds = [%d, %d), want about [60, 220)", region.Y1, region.Y2)
	}
}

func TestSegment_ContourStrategy_NoCandidate(t *testing.T) {
	img := newSheet(200, 260)
	// Only the full-size border: excluded by the span filter.
	drawRectOutline(img, 0, 0, 200, 260)

	opts := DefaultOptions()
	opts.Strategy = StrategyContour

	seg, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = seg.Segment(img)
	if !errors.Is(err, ErrNoRegionFound) {
		t.Errorf("border-only sheet error = %v, want ErrNoRegionFound", err)
	}
}

func TestSegment_MidpointStrategy(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = StrategyMidpoint

	seg, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Blank sheets are fine for midpoint-only: no detection happens.
	blocks, err := seg.Segment(newSheet(300, 500))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}

	left, right := blocks[0], blocks[1]
	if left.Region.Width() != right.Region.Width() {
		t.Errorf("midpoint split uneven: left %d, right %d",
			left.Region.Width(), right.Region.Width())
	}
	wantY1 := int(500 * opts.SkipTopFrac)
	if left.Region.Y1 != wantY1 {
		t.Errorf("band starts at y=%d, want %d", left.Region.Y1, wantY1)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"even block size", func(o *Options) { o.BlockSize = 14 }},
		{"inverted ROI", func(o *Options) { o.HStartFrac = 0.9; o.HEndFrac = 0.2 }},
		{"zero window", func(o *Options) { o.WindowSize = 0 }},
		{"bad contrast", func(o *Options) { o.ValleyContrast = 1.5 }},
		{"bad strategy", func(o *Options) { o.Strategy = "fancy" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := New(opts); err == nil {
				t.Error("invalid options accepted")
			}
		})
	}
}
