package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omr-tools/sheetscan/internal/vision"
)

// ErrInvalidResponse indicates a block result that is absent or failed
// schema validation. It is block-local: the caller records it in the report
// entry and moves on.
var ErrInvalidResponse = errors.New("invalid analysis response")

// Normalize canonicalizes one raw block result.
//
// Question keys are parsed as integers with leading zeros stripped; a key
// that is all zeros becomes 0. Keys that do not parse keep their raw string
// form. String answers of a single alternative are lower-cased; nil answers
// and multi-value strings (duplicated markings like "A,C") pass through
// unchanged. Pair order is preserved.
//
// Normalize is idempotent: applying it to an already-normalized result
// yields the same mapping.
func Normalize(raw *vision.RawResult) (*BlockResponse, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no result", ErrInvalidResponse)
	}

	questions := make([]NormalizedAnswer, 0, len(raw.Markings))
	for _, m := range raw.Markings {
		questions = append(questions, NormalizedAnswer{
			Question: parseQuestionKey(m.Question),
			Answer:   normalizeAnswer(m.Answer),
		})
	}

	return &BlockResponse{
		Questions:    questions,
		IsValidImage: raw.IsValidImage,
	}, nil
}

// parseQuestionKey parses a raw question key as an integer after stripping
// leading zeros. Empty-after-strip ("0", "000") is zero. Keys that do not
// parse pass through unmodified as a fallback; malformed keys are expected
// from the model occasionally and dropping the pair would lose the answer.
func parseQuestionKey(raw string) QuestionKey {
	s := strings.TrimSpace(raw)
	if s == "" {
		return QuestionKey{Raw: raw}
	}

	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return QuestionKey{Number: 0, Numeric: true}
	}

	n, err := strconv.Atoi(stripped)
	if err != nil {
		return QuestionKey{Raw: raw}
	}
	return QuestionKey{Number: n, Numeric: true}
}

// normalizeAnswer lower-cases a single-alternative answer. Nil answers and
// multi-character values (duplicated markings, free-form model output) pass
// through unchanged.
func normalizeAnswer(answer *string) *string {
	if answer == nil {
		return nil
	}
	if len([]rune(*answer)) != 1 {
		return answer
	}
	lowered := strings.ToLower(*answer)
	return &lowered
}
