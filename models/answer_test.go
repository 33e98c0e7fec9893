package models

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueUnmarshal(t *testing.T) {
	var a AnswerValue
	if err := json.Unmarshal([]byte(`"A"`), &a); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if a.IsEmpty() || a.Text() != "A" {
		t.Errorf("string answer off: empty=%v text=%q", a.IsEmpty(), a.Text())
	}

	if err := json.Unmarshal([]byte(`["A","C"]`), &a); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if a.IsEmpty() {
		t.Error("non-empty list should not be blank")
	}
	if set := a.Set(); !set["A"] || !set["C"] || len(set) != 2 {
		t.Errorf("list answer set off: %v", set)
	}

	for _, raw := range []string{`""`, `[]`, `null`, `42`} {
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !a.IsEmpty() {
			t.Errorf("%s should decode as blank", raw)
		}
	}
}

func TestAnswerValueMarshal(t *testing.T) {
	cases := []struct {
		answer AnswerValue
		want   string
	}{
		{SingleAnswer("B"), `"B"`},
		{MultiAnswer([]string{"A", "C"}), `["A","C"]`},
		{EmptyAnswer(), `""`},
	}
	for _, c := range cases {
		raw, err := json.Marshal(c.answer)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(raw) != c.want {
			t.Errorf("marshal = %s, want %s", raw, c.want)
		}
	}
}

func TestAnswerValueListHasNoTextForm(t *testing.T) {
	if MultiAnswer([]string{"A"}).Text() != "" {
		t.Error("a list answer must not expose a bare-string form")
	}
}

func TestAnswerValueDuplicatesCollapse(t *testing.T) {
	set := MultiAnswer([]string{"A", "A", "B"}).Set()
	if len(set) != 2 {
		t.Errorf("expected duplicates to collapse, got %v", set)
	}
}
