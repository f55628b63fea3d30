// Package segment locates the answer-grid region of a photographed
// answer sheet and splits it into independently analyzable blocks.
//
// # Pipeline
//
// Segmentation runs in two stages:
//
//  1. Region location: find the bounding rectangle of the bubbled answer
//     grid, excluding the sheet's header and footer. Two strategies are
//     available: projection-profile analysis (default) and connected-component
//     bounding boxes.
//  2. Column splitting: find the vertical low-density valley between the two
//     answer columns and cut the region into a left and a right block.
//
// A third strategy, midpoint-only, skips detection entirely and cuts the
// central band of the sheet at its exact midpoint. It exists as a fallback
// for sheets the detectors cannot handle.
//
// # Failure Model
//
// Segmentation failures are structural: without a valid region and two
// non-empty blocks there is nothing to analyze, so Segment returns an error
// (ErrNoRegionFound, ErrRegionTooSmall, or ErrEmptyBlock) and no blocks.
// Callers are expected to surface this as a single request-level failure.
//
// # Determinism
//
// All algorithms in this package are synchronous, CPU-bound, and
// deterministic for a given input image and options.
package segment
