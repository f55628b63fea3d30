package vision

import "context"

// Service analyzes a single answer-sheet block.
//
// Implementations must be safe for concurrent use: the orchestrator issues
// one AnalyzeBlock call per block in parallel.
type Service interface {
	// AnalyzeBlock sends the block image (PNG-encoded) to the vision model
	// and returns its raw analysis. blockID is the 1-based block ordinal;
	// it is forwarded to the model so prompts can name the block's question
	// range.
	//
	// Any failure, transport or payload, is returned as an error; there
	// are no partial results.
	AnalyzeBlock(ctx context.Context, png []byte, blockID int) (*RawResult, error)
}
