package segment

import "testing"

// flatProfile returns a profile of the given width filled with value.
func flatProfile(width, value int) []int {
	p := make([]int, width)
	for i := range p {
		p[i] = value
	}
	return p
}

func TestValleySplit_FindsGap(t *testing.T) {
	// Dense columns everywhere except a wide valley at [130, 170).
	cols := flatProfile(300, 100)
	for x := 130; x < 170; x++ {
		cols[x] = 5
	}

	split, valley, err := valleySplit(cols, 20, 0.3)
	if err != nil {
		t.Fatalf("valleySplit failed: %v", err)
	}
	if !valley {
		t.Fatal("valley not detected")
	}
	if split < 130 || split >= 170 {
		t.Errorf("split at %d, want inside valley [130, 170)", split)
	}
}

func TestValleySplit_IgnoresNoiseSpike(t *testing.T) {
	// A genuine valley at [130, 170) plus a single-column dropout at 110.
	// The unweighted minimum is at 110; the window mean must still prefer
	// the wide valley.
	cols := flatProfile(300, 100)
	for x := 130; x < 170; x++ {
		cols[x] = 5
	}
	cols[110] = 0

	split, valley, err := valleySplit(cols, 20, 0.3)
	if err != nil {
		t.Fatalf("valleySplit failed: %v", err)
	}
	if !valley {
		t.Fatal("valley not detected")
	}
	if split < 130 || split >= 170 {
		t.Errorf("split at %d landed on the noise spike region, want [130, 170)", split)
	}
}

func TestValleySplit_NoContrastFallsBackToMidpoint(t *testing.T) {
	tests := []struct {
		name string
		cols []int
	}{
		{"uniform density", flatProfile(200, 50)},
		{"all empty", flatProfile(200, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, valley, err := valleySplit(tt.cols, 20, 0.3)
			if err != nil {
				t.Fatalf("valleySplit failed: %v", err)
			}
			if valley {
				t.Error("valley reported on contrast-free profile")
			}
			if split != len(tt.cols)/2 {
				t.Errorf("split at %d, want exact midpoint %d", split, len(tt.cols)/2)
			}
		})
	}
}

func TestValleySplit_BoundsProperty(t *testing.T) {
	// For any profile wide enough to split, 0 < split < W and the two side
	// widths always sum to W.
	profiles := [][]int{
		flatProfile(2, 0),
		flatProfile(7, 3),
		flatProfile(61, 1),
		func() []int {
			p := flatProfile(120, 80)
			for x := 55; x < 66; x++ {
				p[x] = 0
			}
			return p
		}(),
	}

	for _, cols := range profiles {
		w := len(cols)
		split, _, err := valleySplit(cols, 20, 0.3)
		if err != nil {
			t.Fatalf("valleySplit failed on width %d: %v", w, err)
		}
		if split <= 0 || split >= w {
			t.Errorf("width %d: split %d outside (0, %d)", w, split, w)
		}
		if split+(w-split) != w {
			t.Errorf("width %d: side widths do not reconstruct the region", w)
		}
	}
}

func TestValleySplit_TooNarrow(t *testing.T) {
	for _, cols := range [][]int{nil, {5}} {
		if _, _, err := valleySplit(cols, 20, 0.3); err == nil {
			t.Errorf("width %d accepted, want error", len(cols))
		}
	}
}

func TestTallestRun(t *testing.T) {
	tests := []struct {
		name      string
		rows      []int
		wantStart int
		wantEnd   int
	}{
		{"single run", []int{5, 6, 7, 8}, 5, 8},
		{"two runs picks taller", []int{1, 2, 3, 40, 41, 42, 43, 44, 45, 46}, 40, 46},
		{"small gaps bridged", []int{10, 15, 20, 25}, 10, 25},
		{"single row", []int{7}, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tallestRun(tt.rows, 10)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("tallestRun = [%d, %d], want [%d, %d]", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
