package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/omr-tools/sheetscan/internal/logger"
)

const (
	geminiAttempts = 3
	geminiBackoff  = 300 * time.Millisecond
)

// Gemini analyzes block images with the Gemini vision model, asking for a
// strict JSON response.
type Gemini struct {
	apiKey            string
	model             string
	questionsPerBlock int
	log               zerolog.Logger
}

// NewGemini creates a Gemini-backed analysis service.
//
// questionsPerBlock sets how many questions the prompt attributes to each
// block; block N covers questions (N-1)*questionsPerBlock+1 through
// N*questionsPerBlock.
func NewGemini(apiKey, model string, questionsPerBlock int) *Gemini {
	if questionsPerBlock <= 0 {
		questionsPerBlock = 11
	}
	return &Gemini{
		apiKey:            strings.TrimSpace(apiKey),
		model:             strings.TrimSpace(model),
		questionsPerBlock: questionsPerBlock,
		log:               logger.WithComponent("vision"),
	}
}

// AnalyzeBlock implements Service.
func (g *Gemini) AnalyzeBlock(ctx context.Context, png []byte, blockID int) (*RawResult, error) {
	if g.apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	if len(png) == 0 {
		return nil, errors.New("gemini: empty block image")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	parts := []genai.Part{
		genai.ImageData("png", png),
		genai.Text(g.prompt(blockID)),
	}

	// Retry transient failures; the context deadline still bounds the call.
	var lastErr error
	for attempt := 1; attempt <= geminiAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			g.log.Warn().
				Err(err).
				Int("block", blockID).
				Int("attempt", attempt).
				Msg("gemini call failed")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * geminiBackoff):
			}
			continue
		}

		txt := firstText(resp)
		if strings.TrimSpace(txt) == "" {
			return nil, fmt.Errorf("gemini: empty response for block %d", blockID)
		}
		txt = stripCodeFences(strings.TrimSpace(txt))

		var out RawResult
		if err := json.Unmarshal([]byte(txt), &out); err != nil {
			return nil, fmt.Errorf("gemini: bad response for block %d: %w", blockID, err)
		}
		return &out, nil
	}
	return nil, fmt.Errorf("gemini: block %d failed after %d attempts: %w", blockID, geminiAttempts, lastErr)
}

// prompt builds the per-block analysis instruction. The question range is
// derived from the block ordinal.
func (g *Gemini) prompt(blockID int) string {
	start := (blockID-1)*g.questionsPerBlock + 1
	end := blockID * g.questionsPerBlock

	return fmt.Sprintf(`Analyze the image of one answer-sheet block containing multiple-choice questions %d through %d (alternatives A, B, C, D).
For each question, identify which alternative is filled in. Consider only clear, visible markings (painted/filled circles).
Return strictly JSON with this shape and nothing else:
{
  "block_id": %d,
  "has_unmarked": <true if any question has no marked alternative>,
  "has_duplicated": <true if any question has more than one marked alternative>,
  "questions_marked_processed": [{"question": "%d", "answer": "A"}, ...],
  "is_valid_img": <true if the image is legible and processable>
}
Use null as the answer for unmarked questions and a comma-separated list (e.g. "A,C") for duplicated markings.`,
		start, end, blockID, start)
}

// firstText returns the first text part of a Gemini response.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// stripCodeFences removes a surrounding markdown code fence, which some
// model versions emit despite the JSON response MIME type.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }
