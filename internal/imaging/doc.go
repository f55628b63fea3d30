// Package imaging provides the pixel-level operations behind answer-sheet
// segmentation: image loading, adaptive thresholding, projection profiles,
// region cropping, and debug overlays.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, the top-left corner is inclusive and the bottom-right
//     corner is exclusive, matching image.Rectangle semantics.
//
// # Binary Maps
//
// AdaptiveThreshold reduces a color image to a BinaryMap, a per-pixel
// foreground/background classification. Pencil and ink marks are locally
// darker than the surrounding paper even under uneven lighting, so the
// threshold is computed per pixel against a Gaussian-weighted neighborhood
// mean rather than a single global cutoff.
//
// # Projection Profiles
//
// RowProfile and ColumnProfile reduce a BinaryMap to 1-D foreground counts.
// Content bands show up as high-count runs; the gap between two answer
// columns shows up as a low-count valley.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Even or too-small threshold window sizes
//   - Crop regions outside image bounds
//   - Decoding or encoding failures
//
// All functions are deterministic: the same input always produces the same
// output.
package imaging
