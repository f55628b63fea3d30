package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set by ldflags during build.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sheetscan",
	Short: "Answer-sheet segmentation and analysis",
	Long: `sheetscan locates the answer grid on a photographed answer sheet,
splits it into per-column blocks, and analyzes each block with a vision
model to extract the marked alternatives.

Run "sheetscan serve" for the HTTP service or "sheetscan analyze" for
one-shot processing of a single image.`,
	Version: fmt.Sprintf("%s (commit %s)", Version, GitCommit),
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
