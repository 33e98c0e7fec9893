package store_test

import (
	"encoding/json"
	"testing"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
)

func TestUnmarshalNormalizesStringIDs(t *testing.T) {
	raw := []byte(`{
		"users": {
			"alice": {
				"answered_questions": [1, "2", 3],
				"wrong_questions": ["2"],
				"wrong_count": {"2": "4"},
				"important_questions": [3, "oops"]
			}
		},
		"user_profiles": {},
		"wrong_questions": {},
		"exam_records": {}
	}`)

	data := store.NewUserData()
	if err := json.Unmarshal(raw, data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	prog, ok := data.Progress("alice")
	if !ok {
		t.Fatal("expected alice to exist")
	}
	if !prog.Answered[1] || !prog.Answered[2] || !prog.Answered[3] {
		t.Errorf("answered set not normalized: %v", prog.Answered)
	}
	if !prog.Wrong[2] {
		t.Errorf("wrong set not normalized: %v", prog.Wrong)
	}
	if prog.WrongCount[2] != 4 {
		t.Errorf("wrong_count not normalized: %v", prog.WrongCount)
	}
	// The non-numeric bookmark id is dropped, not carried.
	if len(prog.Important) != 1 || !prog.Important[3] {
		t.Errorf("important set not normalized: %v", prog.Important)
	}
}

func TestMarshalWritesOrderedArrays(t *testing.T) {
	data := store.NewUserData()
	data.Register("alice", &models.UserProfile{})
	prog, _ := data.Progress("alice")
	prog.Answered[30] = true
	prog.Answered[2] = true
	prog.Answered[17] = true

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Users map[string]struct {
			Answered []int `json:"answered_questions"`
		} `json:"users"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("re-parse: %v", err)
	}

	got := doc.Users["alice"].Answered
	want := []int{2, 17, 30}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ascending ids %v, got %v", want, got)
		}
	}
}

func TestRoundTripPreservesEverything(t *testing.T) {
	data := store.NewUserData()
	data.Register("alice", &models.UserProfile{PasswordHash: "h", CreatedTime: "2025-01-01T00:00:00"})
	prog, _ := data.Progress("alice")
	prog.Answered[1] = true
	prog.Wrong[1] = true
	prog.WrongCount[1] = 2
	data.WrongRecords["alice"] = append(data.WrongRecords["alice"], models.WrongRecord{
		QuestionID: 1,
		UserAnswer: models.SingleAnswer("B"),
		Timestamp:  "2025-01-01T10:00:00",
	})
	score := 42
	data.ExamRecords["alice"] = append(data.ExamRecords["alice"], &models.ExamRecord{
		ExamID:     "20250101_100000",
		Status:     models.ExamStatusCompleted,
		TotalScore: &score,
		Answers:    map[string]models.AnswerValue{"1": models.MultiAnswer([]string{"A", "B"})},
	})

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back := store.NewUserData()
	if err := json.Unmarshal(raw, back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	prog, ok := back.Progress("alice")
	if !ok {
		t.Fatal("expected alice after round trip")
	}
	if !prog.Answered[1] || !prog.Wrong[1] || prog.WrongCount[1] != 2 {
		t.Errorf("progress lost in round trip: %+v", prog)
	}
	if back.Profiles["alice"].PasswordHash != "h" {
		t.Error("profile lost in round trip")
	}
	if len(back.WrongRecords["alice"]) != 1 || back.WrongRecords["alice"][0].UserAnswer.Text() != "B" {
		t.Errorf("wrong records lost: %+v", back.WrongRecords["alice"])
	}
	rec := back.ExamRecords["alice"][0]
	if rec.TotalScore == nil || *rec.TotalScore != 42 {
		t.Errorf("exam record lost: %+v", rec)
	}
	if set := rec.Answers["1"].Set(); !set["A"] || !set["B"] {
		t.Errorf("exam answers lost their shape: %+v", rec.Answers["1"])
	}
}
