// Package vision defines the external block-analysis capability and its
// Gemini-backed implementation.
//
// The analysis service receives one block image (lossless PNG) plus its
// ordinal and returns the raw per-question markings the model read from it.
// The wire schema is loosely typed and has appeared in several shapes across
// model versions; RawResult normalizes all of them into one canonical
// structure at the boundary so no caller ever branches on payload shape.
//
// Failure modes the rest of the system must tolerate (network errors,
// timeouts, non-JSON payloads, schema violations, empty-image rejections)
// all surface as ordinary errors from AnalyzeBlock. Per-call deadlines are
// the caller's responsibility via context.
package vision
