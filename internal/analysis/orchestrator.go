package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/omr-tools/sheetscan/internal/imaging"
	"github.com/omr-tools/sheetscan/internal/logger"
	"github.com/omr-tools/sheetscan/internal/segment"
	"github.com/omr-tools/sheetscan/internal/vision"
)

// Orchestrator runs one vision analysis per block and aggregates the
// normalized results into a report.
type Orchestrator struct {
	svc vision.Service
	log zerolog.Logger
}

// NewOrchestrator creates an orchestrator backed by the given vision service.
func NewOrchestrator(svc vision.Service) *Orchestrator {
	return &Orchestrator{
		svc: svc,
		log: logger.WithComponent("analysis"),
	}
}

// Analyze fans the blocks out to the vision service concurrently and folds
// the results into a report ordered by block ordinal.
//
// An empty input yields an empty report without any external calls. A
// failing block produces an error entry in its slot; the other blocks are
// unaffected. Analyze itself never returns an error value through the
// report entries, only block-local ones.
func (o *Orchestrator) Analyze(ctx context.Context, blocks []segment.Block) *Report {
	report := &Report{Blocks: make([]BlockReport, len(blocks))}
	if len(blocks) == 0 {
		return report
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, block := range blocks {
		block := block
		// Each task owns its slot; no two tasks share state.
		entry := &report.Blocks[i]
		entry.Block = block.ID

		g.Go(func() error {
			resp, err := o.analyzeOne(gctx, block)
			if err != nil {
				o.log.Warn().
					Err(err).
					Int("block", block.ID).
					Msg("block analysis failed")
				entry.Error = err.Error()
				return nil
			}
			entry.Response = resp
			return nil
		})
	}

	// Tasks capture failures as values, so Wait cannot fail.
	_ = g.Wait()

	o.log.Info().
		Int("blocks", len(blocks)).
		Msg("analysis complete")
	return report
}

func (o *Orchestrator) analyzeOne(ctx context.Context, block segment.Block) (*BlockResponse, error) {
	if !block.Nonempty() {
		return nil, fmt.Errorf("block %d: %w", block.ID, segment.ErrEmptyBlock)
	}

	png, err := imaging.EncodePNG(block.Image)
	if err != nil {
		return nil, fmt.Errorf("block %d: encode: %w", block.ID, err)
	}

	raw, err := o.svc.AnalyzeBlock(ctx, png, block.ID)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", block.ID, err)
	}

	resp, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", block.ID, err)
	}
	return resp, nil
}
