package segment

import "fmt"

// Strategy selects how the answer-grid region is located.
type Strategy string

const (
	// StrategyProfile locates the region by projection-profile analysis
	// within a vertical region of interest. This is the default.
	StrategyProfile Strategy = "profile"

	// StrategyContour locates the region by connected-component bounding
	// boxes over the thresholded image.
	StrategyContour Strategy = "contour"

	// StrategyMidpoint skips detection and cuts the central band of the
	// sheet at its exact midpoint.
	StrategyMidpoint Strategy = "midpoint-only"
)

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyProfile, StrategyContour, StrategyMidpoint:
		return Strategy(s), nil
	case "":
		return StrategyProfile, nil
	default:
		return "", fmt.Errorf("unknown segmentation strategy %q", s)
	}
}

// Options holds all tunable parameters of the segmentation pipeline.
// DefaultOptions returns values calibrated on photographed two-column
// answer sheets; override individual fields as needed.
type Options struct {
	// Strategy selects the region locator.
	Strategy Strategy

	// BlockSize is the adaptive-threshold neighborhood window in pixels.
	// Must be odd and greater than 1.
	BlockSize int

	// C is the adaptive-threshold bias constant.
	C float64

	// HStartFrac and HEndFrac bound the vertical region of interest for the
	// profile locator, as fractions of image height. They exclude the
	// sheet's header and footer.
	HStartFrac float64
	HEndFrac   float64

	// SkipTopFrac and SkipBottomFrac bound the central band used by the
	// midpoint-only strategy, as fractions of image height.
	SkipTopFrac    float64
	SkipBottomFrac float64

	// MinBlockHeight is the minimum height in pixels for a detected region
	// to be considered usable.
	MinBlockHeight int

	// RowThreshFrac: a row counts as content when its foreground count
	// exceeds RowThreshFrac times the image width.
	RowThreshFrac float64

	// ColThreshFrac: a column counts as content when its foreground count
	// exceeds ColThreshFrac times the detected band height.
	ColThreshFrac float64

	// RowGap is the number of consecutive non-content rows that starts a
	// new content run during grouping.
	RowGap int

	// WindowSize is the width in columns of the sliding window used to find
	// the split valley.
	WindowSize int

	// ValleyContrast is the maximum ratio of the band's minimum density to
	// the flanking maximum density for the valley to count as a real gap.
	// Above this ratio the splitter falls back to the exact midpoint.
	ValleyContrast float64

	// MinContourAreaFrac and MaxContourAreaFrac bound the acceptable
	// component area for the contour locator, as fractions of image area.
	// They exclude small noise and the sheet's own outer border.
	MinContourAreaFrac float64
	MaxContourAreaFrac float64
}

// DefaultOptions returns the parameter set calibrated on photographed
// two-column answer sheets.
func DefaultOptions() Options {
	return Options{
		Strategy:           StrategyProfile,
		BlockSize:          15,
		C:                  10,
		HStartFrac:         0.2,
		HEndFrac:           0.95,
		SkipTopFrac:        0.35,
		SkipBottomFrac:     0.05,
		MinBlockHeight:     100,
		RowThreshFrac:      0.05,
		ColThreshFrac:      0.03,
		RowGap:             10,
		WindowSize:         20,
		ValleyContrast:     0.3,
		MinContourAreaFrac: 0.10,
		MaxContourAreaFrac: 0.90,
	}
}

// Validate checks the option set for values the pipeline cannot work with.
func (o Options) Validate() error {
	if o.BlockSize <= 1 || o.BlockSize%2 == 0 {
		return fmt.Errorf("block size must be odd and greater than 1, got %d", o.BlockSize)
	}
	if o.HStartFrac < 0 || o.HEndFrac > 1 || o.HStartFrac >= o.HEndFrac {
		return fmt.Errorf("invalid ROI fractions: start %.2f, end %.2f", o.HStartFrac, o.HEndFrac)
	}
	if o.SkipTopFrac < 0 || o.SkipBottomFrac < 0 || o.SkipTopFrac+o.SkipBottomFrac >= 1 {
		return fmt.Errorf("invalid skip fractions: top %.2f, bottom %.2f", o.SkipTopFrac, o.SkipBottomFrac)
	}
	if o.MinBlockHeight <= 0 {
		return fmt.Errorf("minimum block height must be positive, got %d", o.MinBlockHeight)
	}
	if o.WindowSize <= 0 {
		return fmt.Errorf("valley window size must be positive, got %d", o.WindowSize)
	}
	if o.ValleyContrast <= 0 || o.ValleyContrast >= 1 {
		return fmt.Errorf("valley contrast must be in (0, 1), got %.2f", o.ValleyContrast)
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	return nil
}
