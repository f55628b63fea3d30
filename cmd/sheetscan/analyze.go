package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omr-tools/sheetscan/internal/analysis"
	"github.com/omr-tools/sheetscan/internal/config"
	"github.com/omr-tools/sheetscan/internal/imaging"
	"github.com/omr-tools/sheetscan/internal/logger"
	"github.com/omr-tools/sheetscan/internal/segment"
	"github.com/omr-tools/sheetscan/internal/vision"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-file]",
	Short: "Analyze a single answer-sheet image",
	Long: `Segment one answer-sheet image, analyze its blocks with the vision
model, and print the aggregate report as JSON on stdout.

Requires GENAI_API_KEY in the environment or a .env file.`,
	Example: `  # Analyze a sheet and print the report
  sheetscan analyze sheet.jpg

  # Save an annotated copy showing the detected region and split
  sheetscan analyze sheet.jpg --debug-out annotated.png

  # Keep the cropped block images for inspection
  sheetscan analyze sheet.jpg --dump-blocks ./blocks`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("strategy", "", "Segmentation strategy: profile, contour, or midpoint-only")
	analyzeCmd.Flags().String("debug-out", "", "Write an annotated copy of the sheet to this path")
	analyzeCmd.Flags().String("dump-blocks", "", "Write the cropped block images into this directory")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	strategy, _ := cmd.Flags().GetString("strategy")
	debugOut, _ := cmd.Flags().GetString("debug-out")
	dumpDir, _ := cmd.Flags().GetString("dump-blocks")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}

	opts, err := cfg.SegmentOptions()
	if err != nil {
		return err
	}
	segmenter, err := segment.New(opts)
	if err != nil {
		return err
	}

	img, err := imaging.Load(args[0])
	if err != nil {
		return err
	}

	blocks, err := segmenter.Segment(img)
	if err != nil {
		return err
	}

	if debugOut != "" {
		if err := writeAnnotated(img, blocks, debugOut); err != nil {
			return err
		}
	}
	if dumpDir != "" {
		if err := dumpBlocks(blocks, dumpDir); err != nil {
			return err
		}
	}

	svc := vision.NewGemini(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.QuestionsPerBlock)
	report := analysis.NewOrchestrator(svc).Analyze(cmd.Context(), blocks)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeAnnotated saves a copy of the sheet with the located region outlined
// and the split column drawn.
func writeAnnotated(img image.Image, blocks []segment.Block, path string) error {
	if len(blocks) < 2 {
		return fmt.Errorf("annotation needs both blocks, got %d", len(blocks))
	}

	region := blocks[0].Region.Rect().Union(blocks[1].Region.Rect())
	split := blocks[1].Region.X1

	png, err := imaging.Overlay(img, region, split)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

// dumpBlocks writes each block's pixels as block_<id>_<side>.png.
func dumpBlocks(blocks []segment.Block, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, b := range blocks {
		png, err := imaging.EncodePNG(b.Image)
		if err != nil {
			return fmt.Errorf("block %d: %w", b.ID, err)
		}
		name := fmt.Sprintf("block_%d_%s.png", b.ID, b.Side)
		if err := os.WriteFile(filepath.Join(dir, name), png, 0o644); err != nil {
			return err
		}
	}
	return nil
}
