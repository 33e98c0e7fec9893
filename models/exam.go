package models

// Exam record lifecycle states. Completed is terminal.
const (
	ExamStatusOngoing   = "ongoing"
	ExamStatusCompleted = "completed"
)

// DefaultExamDuration is the fixed exam length in seconds.
const DefaultExamDuration = 3600

// ExamRecord is a fixed 150-question timed session. Questions are a
// snapshot sampled at creation; Answers is keyed by stringified question id
// because that is how the document has always stored it.
type ExamRecord struct {
	ExamID          string                 `json:"exam_id"`
	StartTime       string                 `json:"start_time"`
	EndTime         string                 `json:"end_time,omitempty"`
	Status          string                 `json:"status"`
	Questions       []Question             `json:"questions"`
	Answers         map[string]AnswerValue `json:"answers"`
	DurationSeconds int                    `json:"duration_seconds"`
	LastSaved       string                 `json:"last_saved,omitempty"`
	TotalScore      *int                   `json:"total_score,omitempty"`
	WrongAnswers    []WrongAnswer          `json:"wrong_answers,omitempty"`
}

// WrongAnswer is one entry of an exam's finalize summary. Unlike
// WrongRecord it also covers blank submissions and carries the question's
// point value.
type WrongAnswer struct {
	QuestionID      int         `json:"question_id"`
	UserAnswer      AnswerValue `json:"user_answer"`
	CorrectAnswer   string      `json:"correct_answer"`
	QuestionContent string      `json:"question_content"`
	Analysis        string      `json:"analysis"`
	Type            int         `json:"type"`
	Score           int         `json:"score"`
}

// ExamSession is the payload returned when an exam is started or resumed.
type ExamSession struct {
	ExamID    string                 `json:"exam_id"`
	Questions []Question             `json:"questions"`
	Answers   map[string]AnswerValue `json:"answers"`
	TimeLeft  int                    `json:"time_left"`
}

// ExamResult is the payload returned by a finalized exam.
type ExamResult struct {
	TotalScore   int           `json:"total_score"`
	WrongAnswers []WrongAnswer `json:"wrong_answers"`
}

// Pagination is the metadata block attached to every paginated list.
type Pagination struct {
	TotalCount  int  `json:"total_count"`
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size,omitempty"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

// ExamRecordsPage is one page of a user's exam history.
type ExamRecordsPage struct {
	Records    []*ExamRecord `json:"records"`
	Pagination Pagination    `json:"pagination"`
}

// ExamDetail is the full view of one exam record, questions enriched from
// the live bank.
type ExamDetail struct {
	ExamID       string                 `json:"exam_id"`
	StartTime    string                 `json:"start_time"`
	EndTime      string                 `json:"end_time,omitempty"`
	Status       string                 `json:"status"`
	TotalScore   int                    `json:"total_score"`
	Questions    []ExamDetailQuestion   `json:"questions"`
	WrongAnswers []WrongAnswer          `json:"wrong_answers,omitempty"`
	Answers      map[string]AnswerValue `json:"answers,omitempty"`
}

type ExamDetailQuestion struct {
	ID            int      `json:"id"`
	Number        int      `json:"number"`
	Content       string   `json:"content"`
	Type          int      `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Score         int      `json:"score"`
	Analysis      string   `json:"analysis"`
	IsImportant   bool     `json:"is_important"`
}
