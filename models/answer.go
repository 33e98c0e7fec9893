package models

import "encoding/json"

type answerKind int

const (
	answerEmpty answerKind = iota
	answerSingle
	answerMultiple
)

// AnswerValue is a submitted answer. The wire form is dynamically shaped: a
// bare string for single-choice/true-false, an array for multi-choice, or
// null/"" when the user left the question blank. AnswerValue keeps that
// shape through persistence but gives the scoring code typed access.
type AnswerValue struct {
	kind   answerKind
	single string
	multi  []string
}

func EmptyAnswer() AnswerValue {
	return AnswerValue{kind: answerEmpty}
}

// SingleAnswer builds an answer from a bare string. An empty string means
// the question was left blank.
func SingleAnswer(s string) AnswerValue {
	if s == "" {
		return EmptyAnswer()
	}
	return AnswerValue{kind: answerSingle, single: s}
}

// MultiAnswer builds an answer from a list of option keys.
func MultiAnswer(keys []string) AnswerValue {
	if len(keys) == 0 {
		return EmptyAnswer()
	}
	return AnswerValue{kind: answerMultiple, multi: keys}
}

// IsEmpty reports whether the submission is blank: no value at all, an
// empty string, or an empty option list.
func (a AnswerValue) IsEmpty() bool {
	return a.kind == answerEmpty
}

// Text returns the bare-string form. Multi-valued answers have no string
// form and yield "" so that a list submitted against a single-choice
// question can never compare equal to its correct answer.
func (a AnswerValue) Text() string {
	if a.kind == answerSingle {
		return a.single
	}
	return ""
}

// Set normalizes the submission to a set of option keys: a bare string
// becomes a one-element set, a blank answer the empty set. Duplicates
// collapse.
func (a AnswerValue) Set() map[string]bool {
	set := make(map[string]bool)
	switch a.kind {
	case answerSingle:
		set[a.single] = true
	case answerMultiple:
		for _, k := range a.multi {
			set[k] = true
		}
	}
	return set
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerMultiple:
		return json.Marshal(a.multi)
	case answerSingle:
		return json.Marshal(a.single)
	default:
		return json.Marshal("")
	}
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = SingleAnswer(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = MultiAnswer(list)
		return nil
	}
	// null or anything else unrecognized counts as unanswered
	*a = EmptyAnswer()
	return nil
}
