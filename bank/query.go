package bank

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/utils"
)

var ErrQuestionNotFound = errors.New("question not found")

// Sort keys accepted by Query and WrongList.
const (
	SortByID           = "id"
	SortByWrongCount   = "wrong_count"
	SortByLastAnswered = "last_answered"
	SortByTimestamp    = "timestamp"
	SortByCount        = "count"
)

// Status filter values.
const (
	StatusUnanswered    = "unanswered"
	StatusCorrect       = "correct"
	StatusWrong         = "wrong"
	StatusFrequentWrong = "frequent_wrong"
	StatusImportant     = "important"
)

// DefaultPageSize matches what the bank pages have always requested.
const DefaultPageSize = 100

// Entry is one bank row annotated with the caller's status. lastRaw keeps
// the unformatted timestamp for sorting.
type Entry struct {
	ID               int    `json:"id"`
	Number           int    `json:"number"`
	Type             int    `json:"type"`
	IsAnswered       bool   `json:"is_answered"`
	IsWrong          bool   `json:"is_wrong"`
	WrongCount       int    `json:"wrong_count"`
	LastAnsweredTime string `json:"last_answered_time,omitempty"`
	IsImportant      bool   `json:"is_important"`

	lastRaw string
}

// QueryOptions selects, orders and pages the annotated bank.
type QueryOptions struct {
	TypeFilter    string // "all", "1", "2", "3"
	StatusFilter  string
	SortBy        string
	PageSize      int
	PageSingle    int
	PageMulti     int
	PageTrueFalse int
	// ImportantOnly restricts the bank to the bookmarked subset before
	// any other filter applies.
	ImportantOnly bool

	Now func() time.Time
}

// Result is the per-type split the bank pages render: three independent
// lists, each with its own pagination block.
type Result struct {
	SingleChoice        []Entry           `json:"single_choice"`
	MultiChoice         []Entry           `json:"multi_choice"`
	TrueFalse           []Entry           `json:"true_false"`
	SinglePagination    models.Pagination `json:"single_pagination"`
	MultiPagination     models.Pagination `json:"multi_pagination"`
	TrueFalsePagination models.Pagination `json:"true_false_pagination"`
}

// wrongStats folds the wrong-record log into per-question counts and the
// first recorded timestamp. The record count is the authoritative display
// value, independent of the wrong_count mapping kept on progress.
func wrongStats(records []models.WrongRecord) (counts map[int]int, firstSeen map[int]string) {
	counts = make(map[int]int)
	firstSeen = make(map[int]string)
	for _, rec := range records {
		if _, ok := firstSeen[rec.QuestionID]; !ok {
			firstSeen[rec.QuestionID] = rec.Timestamp
		}
		counts[rec.QuestionID]++
	}
	return counts, firstSeen
}

// displayTime renders a stored timestamp the way the bank pages show it.
func displayTime(iso string) string {
	return utils.ParseISO(iso).Format("2006-01-02 15:04")
}

// annotate derives a user's status entry for one question. When a question
// was answered but never wrong there is no logged timestamp, so "now"
// stands in — correct answers are not separately timestamped, a known
// imprecision of the log.
func annotate(q models.Question, prog *models.UserProgress, counts map[int]int, firstSeen map[int]string, now time.Time) Entry {
	entry := Entry{
		ID:          q.ID,
		Number:      q.Number,
		Type:        q.Type,
		IsAnswered:  prog.Answered[q.ID],
		IsWrong:     prog.Wrong[q.ID],
		WrongCount:  counts[q.ID],
		IsImportant: prog.Important[q.ID],
	}
	if entry.IsAnswered {
		raw, ok := firstSeen[q.ID]
		if !ok {
			raw = utils.FormatISO(now)
		}
		entry.lastRaw = raw
		entry.LastAnsweredTime = displayTime(raw)
	}
	return entry
}

func matchesStatus(e Entry, status string) bool {
	switch status {
	case StatusUnanswered:
		return !e.IsAnswered
	case StatusCorrect:
		return e.IsAnswered && !e.IsWrong
	case StatusWrong:
		return e.IsWrong
	case StatusFrequentWrong:
		return e.IsWrong && e.WrongCount >= 3
	case StatusImportant:
		return e.IsImportant
	default:
		return true
	}
}

func sortEntries(entries []Entry, sortBy string) {
	switch sortBy {
	case SortByWrongCount:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].WrongCount > entries[j].WrongCount
		})
	case SortByLastAnswered:
		// Descending, entries without a timestamp last.
		sort.SliceStable(entries, func(i, j int) bool {
			if (entries[i].lastRaw == "") != (entries[j].lastRaw == "") {
				return entries[j].lastRaw == ""
			}
			return entries[i].lastRaw > entries[j].lastRaw
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].ID < entries[j].ID
		})
	}
}

// Paginate slices one page out of a list of length total and builds its
// metadata block. Pages are 1-based.
func Paginate(total, page, pageSize int) (start, end int, meta models.Pagination) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * pageSize
	end = start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	meta = models.Pagination{
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  (total + pageSize - 1) / pageSize,
		HasNext:     page*pageSize < total,
		HasPrev:     page > 1,
	}
	return start, end, meta
}

func pageOf(entries []Entry, page, pageSize int) ([]Entry, models.Pagination) {
	start, end, meta := Paginate(len(entries), page, pageSize)
	out := entries[start:end]
	if out == nil {
		out = []Entry{}
	}
	return out, meta
}

// Query filters, sorts and pages the bank (or its bookmarked subset)
// annotated with one user's status.
func Query(questions []models.Question, prog *models.UserProgress, records []models.WrongRecord, opts QueryOptions) Result {
	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	counts, firstSeen := wrongStats(records)

	byType := map[int][]Entry{
		models.TypeSingleChoice: {},
		models.TypeMultiChoice:  {},
		models.TypeTrueFalse:    {},
	}
	for _, q := range questions {
		if opts.ImportantOnly && !prog.Important[q.ID] {
			continue
		}
		if opts.TypeFilter != "" && opts.TypeFilter != "all" && strconv.Itoa(q.Type) != opts.TypeFilter {
			continue
		}
		entry := annotate(q, prog, counts, firstSeen, now)
		if !matchesStatus(entry, opts.StatusFilter) {
			continue
		}
		byType[q.Type] = append(byType[q.Type], entry)
	}

	for t := range byType {
		sortEntries(byType[t], opts.SortBy)
	}

	var res Result
	res.SingleChoice, res.SinglePagination = pageOf(byType[models.TypeSingleChoice], opts.PageSingle, opts.PageSize)
	res.MultiChoice, res.MultiPagination = pageOf(byType[models.TypeMultiChoice], opts.PageMulti, opts.PageSize)
	res.TrueFalse, res.TrueFalsePagination = pageOf(byType[models.TypeTrueFalse], opts.PageTrueFalse, opts.PageSize)
	return res
}

// Detail builds the full per-question view for one user.
func Detail(questions []models.Question, prog *models.UserProgress, records []models.WrongRecord, questionID int) (models.QuestionDetail, error) {
	var question models.Question
	found := false
	for _, q := range questions {
		if q.ID == questionID {
			question = q
			found = true
			break
		}
	}
	if !found {
		return models.QuestionDetail{}, ErrQuestionNotFound
	}

	counts, firstSeen := wrongStats(records)
	entry := annotate(question, prog, counts, firstSeen, time.Now())

	return models.QuestionDetail{
		ID:               question.ID,
		Number:           question.Number,
		Content:          question.Content,
		Type:             question.Type,
		Options:          question.Options,
		CorrectAnswer:    question.CorrectAnswer,
		Analysis:         question.Analysis,
		IsAnswered:       entry.IsAnswered,
		IsWrong:          entry.IsWrong,
		WrongCount:       entry.WrongCount,
		LastAnsweredTime: entry.LastAnsweredTime,
		IsImportant:      entry.IsImportant,
	}, nil
}

// Stats computes the user's headline numbers. Average score divides the
// completed-exam total by the overall exam count, which is how the stats
// page has always reported it.
func Stats(questions []models.Question, prog *models.UserProgress, exams []*models.ExamRecord) models.UserStats {
	stats := models.UserStats{
		TotalQuestions: len(questions),
		AnsweredCount:  len(prog.Answered),
		WrongCount:     len(prog.Wrong),
		ExamCount:      len(exams),
	}
	stats.UnansweredCount = stats.TotalQuestions - stats.AnsweredCount

	if stats.ExamCount > 0 {
		total := 0
		for _, rec := range exams {
			if rec.Status == models.ExamStatusCompleted && rec.TotalScore != nil {
				total += *rec.TotalScore
			}
		}
		avg := float64(total) / float64(stats.ExamCount)
		stats.AvgScore = float64(int(avg*10+0.5)) / 10
	}
	return stats
}
