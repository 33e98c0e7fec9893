package bank_test

import (
	"errors"
	"testing"

	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/models"
)

func progressWith(answered, wrong, important []int) *models.UserProgress {
	prog := models.NewUserProgress()
	for _, id := range answered {
		prog.Answered[id] = true
	}
	for _, id := range wrong {
		prog.Wrong[id] = true
	}
	for _, id := range important {
		prog.Important[id] = true
	}
	return prog
}

func singleChoice(ids ...int) []models.Question {
	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, models.Question{
			ID: id, Number: id, Type: models.TypeSingleChoice, CorrectAnswer: "A",
		})
	}
	return questions
}

func wrongRecord(id int, ts string) models.WrongRecord {
	return models.WrongRecord{
		QuestionID: id,
		Timestamp:  ts,
		Type:       models.TypeSingleChoice,
	}
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		total, page, pageSize  int
		start, end, totalPages int
		hasNext, hasPrev       bool
	}{
		{250, 1, 100, 0, 100, 3, true, false},
		{250, 2, 100, 100, 200, 3, true, true},
		{250, 3, 100, 200, 250, 3, false, true},
		{250, 0, 100, 0, 100, 3, true, false}, // page below 1 is treated as 1
		{0, 1, 100, 0, 0, 0, false, false},
		{5, 9, 100, 5, 5, 1, false, true}, // past the end yields an empty slice
	}

	for _, c := range cases {
		start, end, meta := bank.Paginate(c.total, c.page, c.pageSize)
		if start != c.start || end != c.end {
			t.Errorf("Paginate(%d, %d, %d) slice = [%d:%d], want [%d:%d]",
				c.total, c.page, c.pageSize, start, end, c.start, c.end)
		}
		if meta.TotalPages != c.totalPages || meta.HasNext != c.hasNext || meta.HasPrev != c.hasPrev {
			t.Errorf("Paginate(%d, %d, %d) meta = %+v", c.total, c.page, c.pageSize, meta)
		}
		if meta.TotalCount != c.total {
			t.Errorf("Paginate(%d, ...) total_count = %d", c.total, meta.TotalCount)
		}
	}
}

func TestQueryStatusFilters(t *testing.T) {
	// 1 unanswered, 2 correct, 3 wrong once, 4 wrong three times.
	questions := singleChoice(1, 2, 3, 4)
	prog := progressWith([]int{2, 3, 4}, []int{3, 4}, nil)
	records := []models.WrongRecord{
		wrongRecord(3, "2025-01-01T10:00:00"),
		wrongRecord(4, "2025-01-02T10:00:00"),
		wrongRecord(4, "2025-01-03T10:00:00"),
		wrongRecord(4, "2025-01-04T10:00:00"),
	}

	cases := []struct {
		status string
		want   []int
	}{
		{bank.StatusUnanswered, []int{1}},
		{bank.StatusCorrect, []int{2}},
		{bank.StatusWrong, []int{3, 4}},
		{bank.StatusFrequentWrong, []int{4}},
		{"", []int{1, 2, 3, 4}},
	}

	for _, c := range cases {
		res := bank.Query(questions, prog, records, bank.QueryOptions{
			StatusFilter: c.status,
			PageSingle:   1, PageMulti: 1, PageTrueFalse: 1,
		})
		got := make([]int, 0, len(res.SingleChoice))
		for _, e := range res.SingleChoice {
			got = append(got, e.ID)
		}
		if len(got) != len(c.want) {
			t.Errorf("status %q: got ids %v, want %v", c.status, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("status %q: got ids %v, want %v", c.status, got, c.want)
				break
			}
		}
	}
}

func TestQueryWrongCountComesFromTheLog(t *testing.T) {
	questions := singleChoice(1)
	prog := progressWith([]int{1}, []int{1}, nil)
	// The progress counter disagrees with the log; the log wins.
	prog.WrongCount[1] = 9
	records := []models.WrongRecord{
		wrongRecord(1, "2025-01-01T10:00:00"),
		wrongRecord(1, "2025-01-02T10:00:00"),
	}

	res := bank.Query(questions, prog, records, bank.QueryOptions{
		PageSingle: 1, PageMulti: 1, PageTrueFalse: 1,
	})
	if len(res.SingleChoice) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.SingleChoice))
	}
	if res.SingleChoice[0].WrongCount != 2 {
		t.Errorf("expected wrong_count 2 from the log, got %d", res.SingleChoice[0].WrongCount)
	}
	if res.SingleChoice[0].LastAnsweredTime != "2025-01-01 10:00" {
		t.Errorf("expected the first logged timestamp, got %q", res.SingleChoice[0].LastAnsweredTime)
	}
}

func TestQuerySortLastAnsweredPutsUnansweredLast(t *testing.T) {
	questions := singleChoice(1, 2, 3)
	// 1 wrong long ago, 2 never answered, 3 wrong recently.
	prog := progressWith([]int{1, 3}, []int{1, 3}, nil)
	records := []models.WrongRecord{
		wrongRecord(1, "2024-01-01T10:00:00"),
		wrongRecord(3, "2025-06-01T10:00:00"),
	}

	res := bank.Query(questions, prog, records, bank.QueryOptions{
		SortBy:     bank.SortByLastAnswered,
		PageSingle: 1, PageMulti: 1, PageTrueFalse: 1,
	})

	got := make([]int, 0, 3)
	for _, e := range res.SingleChoice {
		got = append(got, e.ID)
	}
	want := []int{3, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if res.SingleChoice[2].LastAnsweredTime != "" {
		t.Error("unanswered entry should have no timestamp")
	}
}

func TestQuerySortWrongCount(t *testing.T) {
	questions := singleChoice(1, 2)
	prog := progressWith([]int{1, 2}, []int{1, 2}, nil)
	records := []models.WrongRecord{
		wrongRecord(1, "2025-01-01T10:00:00"),
		wrongRecord(2, "2025-01-01T11:00:00"),
		wrongRecord(2, "2025-01-01T12:00:00"),
	}

	res := bank.Query(questions, prog, records, bank.QueryOptions{
		SortBy:     bank.SortByWrongCount,
		PageSingle: 1, PageMulti: 1, PageTrueFalse: 1,
	})
	if res.SingleChoice[0].ID != 2 {
		t.Errorf("expected the most-wronged question first, got %d", res.SingleChoice[0].ID)
	}
}

func TestQueryImportantOnly(t *testing.T) {
	questions := singleChoice(1, 2, 3)
	prog := progressWith(nil, nil, []int{2})

	res := bank.Query(questions, prog, nil, bank.QueryOptions{
		ImportantOnly: true,
		PageSingle:    1, PageMulti: 1, PageTrueFalse: 1,
	})
	if len(res.SingleChoice) != 1 || res.SingleChoice[0].ID != 2 {
		t.Errorf("expected only the bookmarked question, got %+v", res.SingleChoice)
	}
	if res.SinglePagination.TotalCount != 1 {
		t.Errorf("pagination should count the filtered subset, got %d", res.SinglePagination.TotalCount)
	}
}

func TestQuerySplitsByType(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.TypeSingleChoice, CorrectAnswer: "A"},
		{ID: 2, Type: models.TypeMultiChoice, CorrectAnswer: "A,B"},
		{ID: 3, Type: models.TypeTrueFalse, CorrectAnswer: "A"},
	}
	prog := models.NewUserProgress()

	res := bank.Query(questions, prog, nil, bank.QueryOptions{
		PageSingle: 1, PageMulti: 1, PageTrueFalse: 1,
	})
	if len(res.SingleChoice) != 1 || len(res.MultiChoice) != 1 || len(res.TrueFalse) != 1 {
		t.Errorf("expected one entry per list, got %d/%d/%d",
			len(res.SingleChoice), len(res.MultiChoice), len(res.TrueFalse))
	}

	res = bank.Query(questions, prog, nil, bank.QueryOptions{
		TypeFilter: "2",
		PageSingle: 1, PageMulti: 1, PageTrueFalse: 1,
	})
	if len(res.SingleChoice) != 0 || len(res.MultiChoice) != 1 || len(res.TrueFalse) != 0 {
		t.Errorf("type filter should empty the other lists, got %d/%d/%d",
			len(res.SingleChoice), len(res.MultiChoice), len(res.TrueFalse))
	}
}

func TestDetail(t *testing.T) {
	questions := singleChoice(1)
	prog := progressWith([]int{1}, []int{1}, []int{1})
	records := []models.WrongRecord{wrongRecord(1, "2025-01-01T10:00:00")}

	detail, err := bank.Detail(questions, prog, records, 1)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if !detail.IsAnswered || !detail.IsWrong || !detail.IsImportant || detail.WrongCount != 1 {
		t.Errorf("detail status off: %+v", detail)
	}
	if detail.CorrectAnswer != "A" {
		t.Errorf("detail should expose the correct answer, got %q", detail.CorrectAnswer)
	}

	if _, err := bank.Detail(questions, prog, records, 999); !errors.Is(err, bank.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestStats(t *testing.T) {
	questions := singleChoice(1, 2, 3, 4)
	prog := progressWith([]int{1, 2}, []int{2}, nil)

	completed := 100
	exams := []*models.ExamRecord{
		{Status: models.ExamStatusCompleted, TotalScore: &completed},
		{Status: models.ExamStatusOngoing},
	}

	stats := bank.Stats(questions, prog, exams)
	if stats.TotalQuestions != 4 || stats.AnsweredCount != 2 || stats.UnansweredCount != 2 {
		t.Errorf("question counts off: %+v", stats)
	}
	if stats.WrongCount != 1 || stats.ExamCount != 2 {
		t.Errorf("wrong/exam counts off: %+v", stats)
	}
	// The average divides by the overall exam count, ongoing included.
	if stats.AvgScore != 50.0 {
		t.Errorf("expected avg 50.0, got %v", stats.AvgScore)
	}
}

func TestStatsRounding(t *testing.T) {
	a, b := 100, 101
	exams := []*models.ExamRecord{
		{Status: models.ExamStatusCompleted, TotalScore: &a},
		{Status: models.ExamStatusCompleted, TotalScore: &b},
	}
	stats := bank.Stats(nil, models.NewUserProgress(), exams)
	if stats.AvgScore != 100.5 {
		t.Errorf("expected avg 100.5, got %v", stats.AvgScore)
	}
}
