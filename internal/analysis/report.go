package analysis

import (
	"encoding/json"
	"strconv"
)

// QuestionKey is a normalized question identifier.
//
// Numeric keys marshal as JSON integers. Keys that could not be parsed as
// integers keep their raw string form as a graceful fallback and marshal as
// JSON strings.
type QuestionKey struct {
	// Number holds the parsed question number when Numeric is true.
	Number int

	// Raw holds the original key when Numeric is false.
	Raw string

	// Numeric reports whether the key parsed as an integer.
	Numeric bool
}

// MarshalJSON emits an integer for numeric keys and a string otherwise.
func (k QuestionKey) MarshalJSON() ([]byte, error) {
	if k.Numeric {
		return json.Marshal(k.Number)
	}
	return json.Marshal(k.Raw)
}

// UnmarshalJSON accepts either form.
func (k *QuestionKey) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*k = QuestionKey{Number: n, Numeric: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = QuestionKey{Raw: s}
	return nil
}

// String returns the key in display form.
func (k QuestionKey) String() string {
	if k.Numeric {
		return strconv.Itoa(k.Number)
	}
	return k.Raw
}

// NormalizedAnswer is one canonical question/answer pair.
//
// Answer is nil for unmarked questions. Single-letter answers are
// lower-cased; multi-value answers such as "a,c" keep their wire form.
type NormalizedAnswer struct {
	Question QuestionKey `json:"question"`
	Answer   *string     `json:"answer"`
}

// BlockResponse is the normalized analysis of one block.
type BlockResponse struct {
	// Questions holds the normalized pairs in the order the model returned
	// them; they are not sorted by question number.
	Questions []NormalizedAnswer `json:"questions_marked_processed"`

	// IsValidImage carries the model's legibility judgment through
	// unchanged.
	IsValidImage bool `json:"is_valid_img"`
}

// BlockReport is one entry of the aggregate report: either a normalized
// response or a block-local error, never both.
type BlockReport struct {
	// Block is the 1-based block ordinal.
	Block int `json:"block"`

	// Response is set when analysis and normalization succeeded.
	Response *BlockResponse `json:"response,omitempty"`

	// Error describes a block-local failure.
	Error string `json:"error,omitempty"`
}

// Report is the final aggregate over all blocks of one sheet, ordered by
// block ordinal. It always has exactly one entry per segmented block and is
// immutable once constructed.
type Report struct {
	Blocks []BlockReport `json:"blocks"`
}
