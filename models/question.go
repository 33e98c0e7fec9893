package models

// Question types as stored in the bank.
const (
	TypeSingleChoice = 1
	TypeMultiChoice  = 2
	TypeTrueFalse    = 3
)

// Question is one immutable record of the question bank.
// CorrectAnswer holds a single option key, except for multi-choice
// questions where it is a comma-joined set of option keys ("A,C").
type Question struct {
	ID            int      `json:"id"`
	Number        int      `json:"number"`
	Type          int      `json:"type"`
	Content       string   `json:"content"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Analysis      string   `json:"analysis"`
	Score         int      `json:"score"`
}

// RandomQuestion is the payload handed to the practice page. It carries no
// correct answer; the client learns it only after submitting.
type RandomQuestion struct {
	ID          int      `json:"id"`
	Number      int      `json:"number"`
	Content     string   `json:"content"`
	Options     []string `json:"options"`
	Type        int      `json:"type"`
	Score       int      `json:"score"`
	IsImportant bool     `json:"is_important"`
}

// SubmitResult is the response to a practice answer submission.
type SubmitResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Analysis      string `json:"analysis"`
}

// QuestionDetail is the full per-question view with the caller's derived
// status fields attached.
type QuestionDetail struct {
	ID               int      `json:"id"`
	Number           int      `json:"number"`
	Content          string   `json:"content"`
	Type             int      `json:"type"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correct_answer"`
	Analysis         string   `json:"analysis"`
	IsAnswered       bool     `json:"is_answered"`
	IsWrong          bool     `json:"is_wrong"`
	WrongCount       int      `json:"wrong_count"`
	LastAnsweredTime string   `json:"last_answered_time,omitempty"`
	IsImportant      bool     `json:"is_important"`
}
