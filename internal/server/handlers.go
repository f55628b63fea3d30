package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omr-tools/sheetscan/internal/analysis"
	"github.com/omr-tools/sheetscan/internal/imaging"
	"github.com/omr-tools/sheetscan/internal/segment"
)

// analyzeResponse is the success envelope of POST /analyze.
type analyzeResponse struct {
	Status string                 `json:"status"`
	Blocks []analysis.BlockReport `json:"blocks"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing image file field"))
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding image: %w", err))
		return
	}

	s.log.Info().
		Str("file", header.Filename).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("analysis request")

	blocks, err := s.segmenter.Segment(img)
	if err != nil {
		if isSegmentationFailure(err) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.log.Error().Err(err).Msg("segmentation failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	report := s.analyzer.Analyze(r.Context(), blocks)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Status: "success",
		Blocks: report.Blocks,
	})
}

// isSegmentationFailure reports whether the error is a structural property
// of the submitted sheet rather than a server fault.
func isSegmentationFailure(err error) bool {
	return errors.Is(err, segment.ErrNoRegionFound) ||
		errors.Is(err, segment.ErrRegionTooSmall) ||
		errors.Is(err, segment.ErrEmptyBlock)
}
