package vision

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRawResult_ObjectArrayShape(t *testing.T) {
	payload := `{
		"block_id": 1,
		"has_unmarked": false,
		"has_duplicated": true,
		"questions_marked_processed": [
			{"question": "1", "answer": "A"},
			{"question": "2", "answer": null},
			{"question": "3", "answer": "A,C"}
		],
		"is_valid_img": true
	}`

	var r RawResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if r.BlockID != 1 || !r.HasDuplicated || !r.IsValidImage {
		t.Errorf("header fields wrong: %+v", r)
	}
	if len(r.Markings) != 3 {
		t.Fatalf("got %d markings, want 3", len(r.Markings))
	}
	if r.Markings[0].Question != "1" || r.Markings[0].Answer == nil || *r.Markings[0].Answer != "A" {
		t.Errorf("marking 0 = %+v", r.Markings[0])
	}
	if r.Markings[1].Answer != nil {
		t.Errorf("null answer not preserved: %+v", r.Markings[1])
	}
	if *r.Markings[2].Answer != "A,C" {
		t.Errorf("multi-value answer mangled: %+v", r.Markings[2])
	}
}

func TestRawResult_StringArrayShape(t *testing.T) {
	payload := `{
		"questions_marked_processed": ["1:A", "2:B", "10:D"],
		"is_valid_img": true
	}`

	var r RawResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(r.Markings) != 3 {
		t.Fatalf("got %d markings, want 3", len(r.Markings))
	}
	if r.Markings[2].Question != "10" || *r.Markings[2].Answer != "D" {
		t.Errorf("marking 2 = %+v", r.Markings[2])
	}
}

func TestRawResult_MappingShape(t *testing.T) {
	// Key order on the wire must survive; maps would scramble it.
	payload := `{
		"questions_marked_processed": {"3": "C", "1": "A", "2": null},
		"is_valid_img": false
	}`

	var r RawResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if r.IsValidImage {
		t.Error("is_valid_img = true, want false")
	}

	wantOrder := []string{"3", "1", "2"}
	if len(r.Markings) != len(wantOrder) {
		t.Fatalf("got %d markings, want %d", len(r.Markings), len(wantOrder))
	}
	for i, q := range wantOrder {
		if r.Markings[i].Question != q {
			t.Errorf("marking %d question = %q, want %q (wire order lost)", i, r.Markings[i].Question, q)
		}
	}
	if r.Markings[2].Answer != nil {
		t.Error("null mapping value not preserved")
	}
}

func TestRawResult_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing markings", `{"is_valid_img": true}`},
		{"missing validity flag", `{"questions_marked_processed": []}`},
		{"markings wrong type", `{"questions_marked_processed": 42, "is_valid_img": true}`},
		{"object without question", `{"questions_marked_processed": [{"answer": "A"}], "is_valid_img": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RawResult
			err := json.Unmarshal([]byte(tt.payload), &r)
			if err == nil {
				t.Fatal("schema violation accepted")
			}
			if !errors.Is(err, ErrSchema) {
				t.Errorf("error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestRawResult_NotJSON(t *testing.T) {
	var r RawResult
	if err := json.Unmarshal([]byte("the model had a bad day"), &r); err == nil {
		t.Fatal("non-JSON payload accepted")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
	}

	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
