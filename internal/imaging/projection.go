package imaging

// RowProfile reduces a BinaryMap to per-row foreground pixel counts.
//
// The returned slice has one entry per row; entry i is the number of
// foreground pixels in row i. Pure function, O(W*H).
func RowProfile(m *BinaryMap) []int {
	profile := make([]int, m.Height)
	for y := 0; y < m.Height; y++ {
		count := 0
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				count++
			}
		}
		profile[y] = count
	}
	return profile
}

// ColumnProfile reduces a BinaryMap to per-column foreground pixel counts.
//
// The returned slice has one entry per column; entry i is the number of
// foreground pixels in column i. Pure function, O(W*H).
func ColumnProfile(m *BinaryMap) []int {
	profile := make([]int, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				profile[x]++
			}
		}
	}
	return profile
}
