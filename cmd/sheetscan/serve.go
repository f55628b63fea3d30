package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omr-tools/sheetscan/internal/analysis"
	"github.com/omr-tools/sheetscan/internal/config"
	"github.com/omr-tools/sheetscan/internal/logger"
	"github.com/omr-tools/sheetscan/internal/segment"
	"github.com/omr-tools/sheetscan/internal/server"
	"github.com/omr-tools/sheetscan/internal/vision"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Start the HTTP server exposing POST /analyze for answer-sheet images.

Required environment variables:
  GENAI_API_KEY - Gemini API key

Optional environment variables:
  GENAI_MODEL         - Model name (default: gemini-2.0-flash)
  LISTEN_ADDR         - Listen address (default: :8080)
  API_KEY             - When set, required in the X-API-Key request header
  SEGMENT_STRATEGY    - profile, contour, or midpoint-only
  TUNING_FILE         - YAML file with segmentation parameter overrides
  QUESTIONS_PER_BLOCK - Questions attributed to each block (default: 11)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}
	log := logger.WithComponent("serve")

	opts, err := cfg.SegmentOptions()
	if err != nil {
		return err
	}
	segmenter, err := segment.New(opts)
	if err != nil {
		return err
	}

	svc := vision.NewGemini(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.QuestionsPerBlock)
	orchestrator := analysis.NewOrchestrator(svc)
	srv := server.New(segmenter, orchestrator, cfg.APIKey)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ListenAddr).
			Str("model", cfg.GenAIModel).
			Str("strategy", string(opts.Strategy)).
			Msg("server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
