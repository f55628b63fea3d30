package vision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrSchema indicates a payload that decoded as JSON but violates the
// analysis response schema (missing required fields or an unrecognized
// markings shape).
var ErrSchema = errors.New("analysis response violates schema")

// Marking is one raw question/answer pair as returned by the model.
// Answer is nil when the question carries no readable mark.
type Marking struct {
	Question string
	Answer   *string
}

// Markings is the ordered list of raw markings for one block.
//
// The wire format is a tagged union that has appeared in three shapes across
// model versions:
//
//   - an array of {"question": "...", "answer": "..."} objects
//   - an array of "question:answer" strings
//   - a direct mapping of question keys to answer values (string or null)
//
// UnmarshalJSON accepts all three and preserves the order in which pairs
// appear on the wire; keys are never sorted.
type Markings []Marking

// RawResult is the canonical form of one block's analysis payload.
//
// The required wire fields are questions_marked_processed and is_valid_img;
// a payload missing either fails decoding with ErrSchema.
type RawResult struct {
	// BlockID is the ordinal echoed by the model, when present.
	BlockID int

	// HasUnmarked reports whether the model saw questions without any mark.
	HasUnmarked bool

	// HasDuplicated reports whether the model saw questions with multiple
	// marks.
	HasDuplicated bool

	// Markings holds the raw question/answer pairs in wire order.
	Markings Markings

	// IsValidImage is the model's own judgment of whether the block image
	// was legible and processable.
	IsValidImage bool
}

type rawResultWire struct {
	BlockID       int             `json:"block_id"`
	HasUnmarked   bool            `json:"has_unmarked"`
	HasDuplicated bool            `json:"has_duplicated"`
	Questions     json.RawMessage `json:"questions_marked_processed"`
	IsValidImage  *bool           `json:"is_valid_img"`
}

// UnmarshalJSON decodes and validates one analysis payload.
func (r *RawResult) UnmarshalJSON(data []byte) error {
	var wire rawResultWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Questions == nil {
		return fmt.Errorf("%w: missing questions_marked_processed", ErrSchema)
	}
	if wire.IsValidImage == nil {
		return fmt.Errorf("%w: missing is_valid_img", ErrSchema)
	}

	var markings Markings
	if err := markings.UnmarshalJSON(wire.Questions); err != nil {
		return err
	}

	*r = RawResult{
		BlockID:       wire.BlockID,
		HasUnmarked:   wire.HasUnmarked,
		HasDuplicated: wire.HasDuplicated,
		Markings:      markings,
		IsValidImage:  *wire.IsValidImage,
	}
	return nil
}

// UnmarshalJSON decodes any of the three wire shapes into an ordered list.
func (m *Markings) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty markings payload", ErrSchema)
	}

	switch trimmed[0] {
	case '[':
		return m.unmarshalArray(trimmed)
	case '{':
		return m.unmarshalMapping(trimmed)
	default:
		return fmt.Errorf("%w: markings must be an array or a mapping", ErrSchema)
	}
}

// unmarshalArray handles the array shapes: objects or "question:answer"
// strings, possibly mixed.
func (m *Markings) unmarshalArray(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	out := make(Markings, 0, len(elements))
	for _, elem := range elements {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 {
			return fmt.Errorf("%w: empty array element", ErrSchema)
		}

		switch elem[0] {
		case '{':
			var pair struct {
				Question *string `json:"question"`
				Answer   *string `json:"answer"`
			}
			if err := json.Unmarshal(elem, &pair); err != nil {
				return fmt.Errorf("%w: %v", ErrSchema, err)
			}
			if pair.Question == nil {
				return fmt.Errorf("%w: marking object without question", ErrSchema)
			}
			out = append(out, Marking{Question: *pair.Question, Answer: pair.Answer})
		case '"':
			var s string
			if err := json.Unmarshal(elem, &s); err != nil {
				return fmt.Errorf("%w: %v", ErrSchema, err)
			}
			out = append(out, splitPair(s))
		default:
			return fmt.Errorf("%w: unsupported array element %s", ErrSchema, elem)
		}
	}

	*m = out
	return nil
}

// unmarshalMapping handles the direct question->answer object shape.
// encoding/json maps do not preserve key order, so the object is walked
// token by token instead.
func (m *Markings) unmarshalMapping(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // opening brace
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	out := Markings{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSchema, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: non-string mapping key %v", ErrSchema, keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSchema, err)
		}

		var answer *string
		switch v := valTok.(type) {
		case nil:
			answer = nil
		case string:
			answer = &v
		case json.Number:
			s := v.String()
			answer = &s
		default:
			return fmt.Errorf("%w: unsupported answer value %v for question %q", ErrSchema, valTok, key)
		}

		out = append(out, Marking{Question: key, Answer: answer})
	}

	if _, err := dec.Token(); err != nil { // closing brace
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	*m = out
	return nil
}

// splitPair parses the compact "question:answer" string form. A string
// without a separator becomes a question with no answer.
func splitPair(s string) Marking {
	question, answer, found := strings.Cut(s, ":")
	question = strings.TrimSpace(question)
	if !found {
		return Marking{Question: question}
	}
	answer = strings.TrimSpace(answer)
	return Marking{Question: question, Answer: &answer}
}
