package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/omr-tools/sheetscan/internal/segment"
)

// Tuning is the YAML schema for per-deployment segmentation overrides.
// Pointer fields distinguish "not set" from an explicit zero, so the file
// only needs the parameters it changes.
type Tuning struct {
	BlockSize          *int     `yaml:"block_size"`
	C                  *float64 `yaml:"c"`
	HStartFrac         *float64 `yaml:"h_start_frac"`
	HEndFrac           *float64 `yaml:"h_end_frac"`
	SkipTopFrac        *float64 `yaml:"skip_top_frac"`
	SkipBottomFrac     *float64 `yaml:"skip_bottom_frac"`
	MinBlockHeight     *int     `yaml:"min_block_height"`
	RowThreshFrac      *float64 `yaml:"row_thresh_frac"`
	ColThreshFrac      *float64 `yaml:"col_thresh_frac"`
	RowGap             *int     `yaml:"row_gap"`
	WindowSize         *int     `yaml:"window_size"`
	ValleyContrast     *float64 `yaml:"valley_contrast"`
	MinContourAreaFrac *float64 `yaml:"min_contour_area_frac"`
	MaxContourAreaFrac *float64 `yaml:"max_contour_area_frac"`
}

// LoadTuning reads and parses a tuning file.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tuning file: %w", err)
	}

	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing tuning file %s: %w", path, err)
	}
	return &t, nil
}

// Apply overwrites the option fields the tuning file sets, leaving the rest
// untouched.
func (t *Tuning) Apply(opts *segment.Options) {
	if t.BlockSize != nil {
		opts.BlockSize = *t.BlockSize
	}
	if t.C != nil {
		opts.C = *t.C
	}
	if t.HStartFrac != nil {
		opts.HStartFrac = *t.HStartFrac
	}
	if t.HEndFrac != nil {
		opts.HEndFrac = *t.HEndFrac
	}
	if t.SkipTopFrac != nil {
		opts.SkipTopFrac = *t.SkipTopFrac
	}
	if t.SkipBottomFrac != nil {
		opts.SkipBottomFrac = *t.SkipBottomFrac
	}
	if t.MinBlockHeight != nil {
		opts.MinBlockHeight = *t.MinBlockHeight
	}
	if t.RowThreshFrac != nil {
		opts.RowThreshFrac = *t.RowThreshFrac
	}
	if t.ColThreshFrac != nil {
		opts.ColThreshFrac = *t.ColThreshFrac
	}
	if t.RowGap != nil {
		opts.RowGap = *t.RowGap
	}
	if t.WindowSize != nil {
		opts.WindowSize = *t.WindowSize
	}
	if t.ValleyContrast != nil {
		opts.ValleyContrast = *t.ValleyContrast
	}
	if t.MinContourAreaFrac != nil {
		opts.MinContourAreaFrac = *t.MinContourAreaFrac
	}
	if t.MaxContourAreaFrac != nil {
		opts.MaxContourAreaFrac = *t.MaxContourAreaFrac
	}
}
