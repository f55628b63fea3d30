package segment

import (
	"errors"
	"image"
)

// Segmentation failures. All of them are structural: the request cannot
// proceed to analysis.
var (
	// ErrNoRegionFound indicates the locator found no answer-grid content.
	ErrNoRegionFound = errors.New("no answer-grid region found")

	// ErrRegionTooSmall indicates the detected region is below the minimum
	// usable height.
	ErrRegionTooSmall = errors.New("detected region below minimum height")

	// ErrEmptyBlock indicates the column split produced a zero-width side.
	ErrEmptyBlock = errors.New("column split produced an empty block")
)

// Region is a rectangle within a source image.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Width is the horizontal extent of the region in pixels.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height is the vertical extent of the region in pixels.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Side names the position of a block within the located region.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Block is one independently analyzable sub-region of the answer sheet,
// carrying its own pixel data.
//
// Blocks for a single sheet are non-overlapping and jointly reconstruct the
// located region exactly: the left block always precedes the right block on
// the x-axis.
type Block struct {
	// ID is the 1-based ordinal of the block. Report entries are ordered
	// by this ID regardless of analysis completion order.
	ID int `json:"block_id"`

	// Side is "left" or "right".
	Side Side `json:"side"`

	// Region is the block's rectangle in source-image coordinates.
	Region Region `json:"region"`

	// Image holds the block's cropped pixel data.
	Image image.Image `json:"-"`
}

// Nonempty reports whether the block has any pixels to analyze.
func (b Block) Nonempty() bool {
	return b.Region.Width() > 0 && b.Region.Height() > 0 && b.Image != nil
}
