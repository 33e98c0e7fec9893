package models

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// FlexInt decodes a request field that clients send either as a number or
// as a numeric string. Anything else decodes to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		n = 0
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// RandomQuestionRequest selects a practice question. TypeFilter and Type
// are aliases; older clients send "type".
type RandomQuestionRequest struct {
	Mode       string  `json:"mode"`
	TypeFilter FlexInt `json:"type_filter"`
	Type       FlexInt `json:"type"`
}

func (r RandomQuestionRequest) QuestionType() int {
	if r.TypeFilter != 0 {
		return r.TypeFilter.Int()
	}
	return r.Type.Int()
}

type SubmitAnswerRequest struct {
	QuestionID FlexInt     `json:"question_id"`
	Answer     AnswerValue `json:"answer"`
}

type SubmitExamRequest struct {
	ExamID  string                 `json:"exam_id"`
	Answers map[string]AnswerValue `json:"answers"`
}

type WrongQuestionsRequest struct {
	SortBy string `json:"sort_by"`
}

type BankQueryRequest struct {
	TypeFilter    string  `json:"type_filter"`
	StatusFilter  string  `json:"status_filter"`
	SortBy        string  `json:"sort_by"`
	Page          FlexInt `json:"page"`
	PageSize      FlexInt `json:"page_size"`
	PageSingle    FlexInt `json:"page_single"`
	PageMulti     FlexInt `json:"page_multi"`
	PageTrueFalse FlexInt `json:"page_true_false"`
}

type QuestionDetailRequest struct {
	QuestionID FlexInt `json:"question_id"`
}

type ToggleImportantRequest struct {
	QuestionID FlexInt `json:"question_id"`
	Mark       *bool   `json:"mark"`
}

type ExamRecordsRequest struct {
	Page     FlexInt `json:"page"`
	PageSize FlexInt `json:"page_size"`
}

type ExamDetailRequest struct {
	ExamID string `json:"exam_id"`
}
