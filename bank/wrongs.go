package bank

import (
	"sort"

	"github.com/MegatronPika/question-system-v3/models"
)

// WrongEntry is one wrong-record log entry enriched with live bank data
// for display. WrongCount is recounted from the log itself.
type WrongEntry struct {
	models.WrongRecord
	WrongCount  int      `json:"wrong_count"`
	Options     []string `json:"options"`
	FullContent string   `json:"full_content"`
	Number      int      `json:"number"`
	IsImportant bool     `json:"is_important"`
}

// WrongListResult groups the wrong history by question type.
type WrongListResult struct {
	SingleChoice []WrongEntry `json:"single_choice"`
	MultiChoice  []WrongEntry `json:"multi_choice"`
	TrueFalse    []WrongEntry `json:"true_false"`
}

// WrongList returns the full wrong history grouped by question type and
// sorted by the requested key (timestamp desc by default, count desc, or
// question id asc).
func WrongList(questions []models.Question, prog *models.UserProgress, records []models.WrongRecord, sortBy string) WrongListResult {
	byID := make(map[int]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	counts := make(map[int]int)
	for _, rec := range records {
		counts[rec.QuestionID]++
	}

	grouped := map[int][]WrongEntry{
		models.TypeSingleChoice: {},
		models.TypeMultiChoice:  {},
		models.TypeTrueFalse:    {},
	}
	for _, rec := range records {
		entry := WrongEntry{
			WrongRecord: rec,
			WrongCount:  counts[rec.QuestionID],
			FullContent: rec.QuestionContent,
			IsImportant: prog.Important[rec.QuestionID],
		}
		// Enrich from the live bank when the question still exists.
		if q, ok := byID[rec.QuestionID]; ok {
			entry.Options = q.Options
			entry.FullContent = q.Content
			entry.Number = q.Number
		}
		if _, ok := grouped[rec.Type]; ok {
			grouped[rec.Type] = append(grouped[rec.Type], entry)
		}
	}

	for t := range grouped {
		sortWrongEntries(grouped[t], sortBy)
	}

	return WrongListResult{
		SingleChoice: grouped[models.TypeSingleChoice],
		MultiChoice:  grouped[models.TypeMultiChoice],
		TrueFalse:    grouped[models.TypeTrueFalse],
	}
}

func sortWrongEntries(entries []WrongEntry, sortBy string) {
	switch sortBy {
	case SortByCount:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].WrongCount > entries[j].WrongCount
		})
	case SortByID:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].QuestionID < entries[j].QuestionID
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp > entries[j].Timestamp
		})
	}
}
