package segment

import (
	"image"

	"github.com/omr-tools/sheetscan/internal/imaging"
)

// findSplit computes the column at which a located region should be cut into
// its left and right blocks, using the region's own pixel data.
//
// # Valley Splitting
//
// The column projection profile of the region shows two dense bands (the
// answer columns) separated by a low-density gap. Inside a central search
// band of half-width W/6 around W/2, a fixed-size window slides one column
// at a time; the split is the center of the window with the minimum mean
// profile value. Averaging over a window finds the widest, most confident
// gap instead of being fooled by a single thin noise spike.
//
// When the band shows no real density contrast against the flanking regions
// (band minimum not below ValleyContrast times the flanking maximum), the
// region is cut at its exact midpoint instead.
//
// Returns the split column relative to the region's left edge, and whether a
// genuine valley was found.
func (s *Segmenter) findSplit(region image.Image) (int, bool, error) {
	bm, err := imaging.AdaptiveThreshold(region, s.opts.BlockSize, s.opts.C)
	if err != nil {
		return 0, false, err
	}

	cols := imaging.ColumnProfile(bm)
	return valleySplit(cols, s.opts.WindowSize, s.opts.ValleyContrast)
}

// valleySplit implements the valley search over a column projection profile.
// Split out from findSplit so it can be exercised on synthetic profiles.
func valleySplit(cols []int, windowSize int, contrast float64) (int, bool, error) {
	w := len(cols)
	if w < 2 {
		return 0, false, ErrEmptyBlock
	}

	center := w / 2
	half := w / 6
	lo := center - half
	hi := center + half
	if lo < 0 {
		lo = 0
	}
	if hi > w {
		hi = w
	}

	minBand := cols[lo]
	for x := lo + 1; x < hi; x++ {
		if cols[x] < minBand {
			minBand = cols[x]
		}
	}

	maxFlank := 0
	for x := 0; x < lo; x++ {
		if cols[x] > maxFlank {
			maxFlank = cols[x]
		}
	}
	for x := hi; x < w; x++ {
		if cols[x] > maxFlank {
			maxFlank = cols[x]
		}
	}

	// No contrast between the band and the columns flanking it means the
	// profile carries no usable valley signal; cut at the exact midpoint.
	if maxFlank == 0 || float64(minBand) >= contrast*float64(maxFlank) {
		return center, false, nil
	}

	win := windowSize
	if win > hi-lo {
		win = hi - lo
	}
	if win < 1 {
		return center, false, nil
	}

	// Rolling sum over the band; the first window seeds it.
	sum := 0
	for x := lo; x < lo+win; x++ {
		sum += cols[x]
	}
	bestSum, bestPos := sum, lo
	for x := lo + 1; x+win <= hi; x++ {
		sum += cols[x+win-1] - cols[x-1]
		if sum < bestSum {
			bestSum, bestPos = sum, x
		}
	}

	split := bestPos + win/2
	if split <= 0 || split >= w {
		return 0, false, ErrEmptyBlock
	}
	return split, true, nil
}
