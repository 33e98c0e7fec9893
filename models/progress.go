package models

// UserProgress is a user's mutable mastery state over the bank. The sets
// are kept as maps in memory for O(1) membership tests; the store converts
// them to ordered arrays on disk.
type UserProgress struct {
	Answered   map[int]bool
	Wrong      map[int]bool
	WrongCount map[int]int
	Important  map[int]bool
}

func NewUserProgress() *UserProgress {
	return &UserProgress{
		Answered:   make(map[int]bool),
		Wrong:      make(map[int]bool),
		WrongCount: make(map[int]int),
		Important:  make(map[int]bool),
	}
}

// WrongRecord is one append-only log entry written on an incorrect (and
// non-blank) submission. Question content and analysis are denormalized so
// history survives bank edits.
type WrongRecord struct {
	QuestionID      int         `json:"question_id"`
	UserAnswer      AnswerValue `json:"user_answer"`
	CorrectAnswer   string      `json:"correct_answer"`
	Timestamp       string      `json:"timestamp"`
	QuestionContent string      `json:"question_content"`
	Analysis        string      `json:"analysis"`
	Type            int         `json:"type"`
}

// UserStats summarizes a user's standing over the whole bank.
type UserStats struct {
	TotalQuestions  int     `json:"total_questions"`
	AnsweredCount   int     `json:"answered_count"`
	UnansweredCount int     `json:"unanswered_count"`
	WrongCount      int     `json:"wrong_count"`
	ExamCount       int     `json:"exam_count"`
	AvgScore        float64 `json:"avg_score"`
}
