package segment

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/omr-tools/sheetscan/internal/imaging"
	"github.com/omr-tools/sheetscan/internal/logger"
)

// Segmenter turns a source image into an ordered pair of analyzable blocks.
//
// A Segmenter is immutable after construction and safe for concurrent use;
// it holds no per-image state.
type Segmenter struct {
	opts Options
	log  zerolog.Logger
}

// New creates a Segmenter with the given options.
func New(opts Options) (*Segmenter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segmentation options: %w", err)
	}
	return &Segmenter{
		opts: opts,
		log:  logger.WithComponent("segment"),
	}, nil
}

// Segment locates the answer-grid region of img and splits it into the left
// and right blocks.
//
// The returned blocks are ordered left before right, carry 1-based ordinals,
// and jointly reconstruct the located region without gaps or overlaps. The
// source image is never modified; each block owns its own cropped copy.
//
// Errors are structural (ErrNoRegionFound, ErrRegionTooSmall, ErrEmptyBlock
// via errors.Is) and mean the request cannot proceed to analysis.
func (s *Segmenter) Segment(img image.Image) ([]Block, error) {
	var (
		region Region
		err    error
	)

	switch s.opts.Strategy {
	case StrategyContour:
		region, err = s.locateContour(img)
	case StrategyMidpoint:
		region, err = s.centralBand(img)
	default:
		region, err = s.locateProfile(img)
	}
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	crop, err := imaging.Crop(img, region.Rect().Add(bounds.Min))
	if err != nil {
		return nil, err
	}

	var split int
	if s.opts.Strategy == StrategyMidpoint {
		split = region.Width() / 2
	} else {
		var valley bool
		split, valley, err = s.findSplit(crop)
		if err != nil {
			return nil, err
		}
		s.log.Debug().
			Int("split", split).
			Bool("valley", valley).
			Msg("split column chosen")
	}

	if split <= 0 || split >= region.Width() {
		return nil, fmt.Errorf("%w: split at column %d of %d", ErrEmptyBlock, split, region.Width())
	}

	left := Region{X1: region.X1, Y1: region.Y1, X2: region.X1 + split, Y2: region.Y2}
	right := Region{X1: region.X1 + split, Y1: region.Y1, X2: region.X2, Y2: region.Y2}

	blocks := make([]Block, 0, 2)
	for i, part := range []struct {
		side   Side
		region Region
	}{
		{SideLeft, left},
		{SideRight, right},
	} {
		pixels, err := imaging.Crop(img, part.region.Rect().Add(bounds.Min))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, Block{
			ID:     i + 1,
			Side:   part.side,
			Region: part.region,
			Image:  pixels,
		})
	}

	s.log.Info().
		Str("strategy", string(s.opts.Strategy)).
		Int("region_width", region.Width()).
		Int("region_height", region.Height()).
		Int("split", split).
		Msg("sheet segmented")

	return blocks, nil
}

// centralBand returns the region used by the midpoint-only strategy: the
// full sheet width with SkipTopFrac and SkipBottomFrac of the height removed.
func (s *Segmenter) centralBand(img image.Image) (Region, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	yStart := int(float64(h) * s.opts.SkipTopFrac)
	yEnd := int(float64(h) * (1 - s.opts.SkipBottomFrac))
	if yEnd-yStart < 2 || w < 2 {
		return Region{}, fmt.Errorf("%w: central band %dx%d", ErrRegionTooSmall, w, yEnd-yStart)
	}

	return Region{X1: 0, Y1: yStart, X2: w, Y2: yEnd}, nil
}
