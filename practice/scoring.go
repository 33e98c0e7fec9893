package practice

import (
	"strings"

	"github.com/MegatronPika/question-system-v3/models"
)

// Score grades one submission against one question. It is pure: applying
// the consequences (mastery sets, wrong log) is the caller's job.
//
// Multi-choice compares as sets, so option order and duplicates are
// irrelevant. Single-choice and true/false compare the bare value exactly.
// isUnanswered reports a blank submission; a blank answer is still
// incorrect but is never treated as a wrong attempt.
func Score(q models.Question, submitted models.AnswerValue) (isCorrect, isUnanswered bool) {
	isUnanswered = submitted.IsEmpty()

	if q.Type == models.TypeMultiChoice {
		correct := make(map[string]bool)
		for _, key := range strings.Split(q.CorrectAnswer, ",") {
			correct[key] = true
		}
		isCorrect = setsEqual(correct, submitted.Set())
		return isCorrect, isUnanswered
	}

	isCorrect = !isUnanswered && submitted.Text() == q.CorrectAnswer
	return isCorrect, isUnanswered
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
