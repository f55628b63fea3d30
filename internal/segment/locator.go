package segment

import (
	"fmt"
	"image"

	"github.com/omr-tools/sheetscan/internal/imaging"
)

// locateProfile finds the answer-grid region by projection-profile analysis.
//
// # Algorithm
//
//  1. Restrict to the vertical ROI [HStartFrac*H, HEndFrac*H] to exclude
//     the header and footer, and threshold it.
//  2. Row profile: a row is content when its foreground count exceeds
//     RowThreshFrac * W. Group content rows into contiguous runs (a gap of
//     more than RowGap rows starts a new run) and keep the tallest run.
//  3. Reject the run when its height is below MinBlockHeight.
//  4. Column profile within the run's row span: keep columns whose count
//     exceeds ColThreshFrac * run height; the horizontal bounds are the
//     first and last such column.
//
// Returns the region in source-image coordinates.
func (s *Segmenter) locateProfile(img image.Image) (Region, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	yStart := int(float64(h) * s.opts.HStartFrac)
	yEnd := int(float64(h) * s.opts.HEndFrac)
	if yEnd-yStart < 2 {
		return Region{}, fmt.Errorf("%w: ROI covers %d rows", ErrRegionTooSmall, yEnd-yStart)
	}

	roi, err := imaging.Crop(img, image.Rect(bounds.Min.X, bounds.Min.Y+yStart, bounds.Max.X, bounds.Min.Y+yEnd))
	if err != nil {
		return Region{}, err
	}

	bm, err := imaging.AdaptiveThreshold(roi, s.opts.BlockSize, s.opts.C)
	if err != nil {
		return Region{}, err
	}

	rows := imaging.RowProfile(bm)
	rowThresh := float64(w) * s.opts.RowThreshFrac

	content := make([]int, 0, len(rows))
	for y, count := range rows {
		if float64(count) > rowThresh {
			content = append(content, y)
		}
	}
	if len(content) == 0 {
		return Region{}, fmt.Errorf("%w: no content rows in ROI", ErrNoRegionFound)
	}

	runStart, runEnd := tallestRun(content, s.opts.RowGap)
	runHeight := runEnd - runStart + 1
	if runHeight < s.opts.MinBlockHeight {
		return Region{}, fmt.Errorf("%w: run height %d < %d", ErrRegionTooSmall, runHeight, s.opts.MinBlockHeight)
	}

	band, err := bm.Crop(image.Rect(0, runStart, bm.Width, runEnd+1))
	if err != nil {
		return Region{}, err
	}

	cols := imaging.ColumnProfile(band)
	colThresh := float64(runHeight) * s.opts.ColThreshFrac

	x1, x2 := -1, -1
	for x, count := range cols {
		if float64(count) > colThresh {
			if x1 < 0 {
				x1 = x
			}
			x2 = x
		}
	}
	if x1 < 0 {
		return Region{}, fmt.Errorf("%w: no content columns in detected band", ErrNoRegionFound)
	}

	return Region{
		X1: x1,
		Y1: yStart + runStart,
		X2: x2 + 1,
		Y2: yStart + runEnd + 1,
	}, nil
}

// tallestRun groups sorted content-row indices into contiguous runs and
// returns the start and end index (inclusive) of the run with the greatest
// vertical extent. A gap of more than maxGap rows starts a new run.
func tallestRun(rows []int, maxGap int) (start, end int) {
	bestStart, bestEnd := rows[0], rows[0]
	curStart := rows[0]

	for i := 1; i < len(rows); i++ {
		if rows[i]-rows[i-1] > maxGap {
			if rows[i-1]-curStart > bestEnd-bestStart {
				bestStart, bestEnd = curStart, rows[i-1]
			}
			curStart = rows[i]
		}
	}
	if rows[len(rows)-1]-curStart > bestEnd-bestStart {
		bestStart, bestEnd = curStart, rows[len(rows)-1]
	}
	return bestStart, bestEnd
}

// locateContour finds the answer-grid region from connected foreground
// components of the thresholded image.
//
// Components are kept only when their bounding-box area lies strictly
// between MinContourAreaFrac and MaxContourAreaFrac of the total image area
// AND the box does not span the full image width or height; the second
// filter excludes the sheet's own outer border. Among the survivors the
// component with the largest bounding box wins.
func (s *Segmenter) locateContour(img image.Image) (Region, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	imgArea := w * h

	bm, err := imaging.AdaptiveThreshold(img, s.opts.BlockSize, s.opts.C)
	if err != nil {
		return Region{}, err
	}

	var (
		best     Region
		bestArea int
	)
	visited := make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !bm.At(x, y) || visited[y*w+x] {
				continue
			}

			_, box := traceComponent(bm, visited, x, y)

			boxArea := box.Dx() * box.Dy()
			if float64(boxArea) <= s.opts.MinContourAreaFrac*float64(imgArea) {
				continue
			}
			if float64(boxArea) >= s.opts.MaxContourAreaFrac*float64(imgArea) {
				continue
			}
			// Boxes spanning the whole image are the sheet border, not content.
			if box.Dx() >= w || box.Dy() >= h {
				continue
			}
			if boxArea > bestArea {
				bestArea = boxArea
				best = Region{X1: box.Min.X, Y1: box.Min.Y, X2: box.Max.X, Y2: box.Max.Y}
			}
		}
	}

	if bestArea == 0 {
		return Region{}, fmt.Errorf("%w: no qualifying component", ErrNoRegionFound)
	}
	return best, nil
}

// traceComponent flood-fills the 8-connected foreground component containing
// (startX, startY), marking it visited. It returns the component's pixel
// count and bounding box.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow on
// large components.
func traceComponent(bm *imaging.BinaryMap, visited []bool, startX, startY int) (int, image.Rectangle) {
	w := bm.Width
	area := 0
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= bm.Height {
			continue
		}
		if visited[p.Y*w+p.X] || !bm.At(p.X, p.Y) {
			continue
		}
		visited[p.Y*w+p.X] = true
		area++

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return area, image.Rect(minX, minY, maxX+1, maxY+1)
}
