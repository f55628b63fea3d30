// Package analysis fans block images out to the vision service and folds
// the raw results into one canonical report.
//
// # Concurrency Model
//
// The orchestrator issues one vision call per block; all calls run
// concurrently and the orchestrator waits for every one to finish before
// returning. Each task owns its block and writes only its own result slot,
// so no locking is needed. Report entries keep the block ordinal order
// regardless of completion order.
//
// # Failure Isolation
//
// A single block's failure (transport error, quota, schema violation)
// never aborts its siblings. Failures are captured as values and surface as
// per-block error entries in the report; the report always has exactly one
// entry per input block.
package analysis
