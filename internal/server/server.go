package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"image"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/omr-tools/sheetscan/internal/analysis"
	"github.com/omr-tools/sheetscan/internal/logger"
	"github.com/omr-tools/sheetscan/internal/segment"
)

// Segmenter splits a sheet image into analyzable blocks.
type Segmenter interface {
	Segment(img image.Image) ([]segment.Block, error)
}

// Analyzer produces the aggregate report for a set of blocks.
type Analyzer interface {
	Analyze(ctx context.Context, blocks []segment.Block) *analysis.Report
}

// Server is the HTTP boundary of the pipeline.
type Server struct {
	segmenter Segmenter
	analyzer  Analyzer
	apiKey    string
	log       zerolog.Logger
}

// New creates a server. An empty apiKey disables request authentication.
func New(segmenter Segmenter, analyzer Analyzer, apiKey string) *Server {
	return &Server{
		segmenter: segmenter,
		analyzer:  analyzer,
		apiKey:    apiKey,
		log:       logger.WithComponent("server"),
	}
}

// Router builds the HTTP handler with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(s.requireAPIKey)
		}
		r.Post("/analyze", s.handleAnalyze)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAPIKey rejects requests whose X-API-Key header does not match the
// configured key.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, errors.New("invalid api key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	text := http.StatusText(code)
	if err != nil {
		text = err.Error()
	}
	writeJSON(w, code, map[string]string{
		"status": "error",
		"error":  text,
	})
}
