package practice

import (
	"errors"
	"math/rand"
	"time"

	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

// Selection modes for Pick.
const (
	ModeAll        = "all"
	ModeUnanswered = "unanswered"
	ModeWrong      = "wrong"
	ModeImportant  = "important"
)

var (
	// ErrNoQuestionsInMode: the mode restriction left nothing to pick.
	ErrNoQuestionsInMode = errors.New("no questions available in this mode")
	// ErrNoQuestionsOfType: the type filter emptied an otherwise
	// non-empty pool.
	ErrNoQuestionsOfType = errors.New("no questions of this type available")

	ErrUserNotFound = errors.New("user progress not found")
)

// Service handles free practice: random selection, answer submission and
// bookmarking.
type Service struct {
	repo  *bank.Repository
	store *store.Store
	now   func() time.Time
}

func NewService(repo *bank.Repository, st *store.Store) *Service {
	return &Service{repo: repo, store: st, now: time.Now}
}

// Pick chooses a question uniformly at random from the candidate pool the
// mode and optional type filter leave over (typeFilter 0 means no
// restriction).
//
// In unanswered mode the chosen question is marked answered immediately,
// before any answer is submitted, so back-to-back picks never hand out the
// same question twice. The question counts as answered even if the user
// walks away without scoring it; the answered statistic depends on this.
func (s *Service) Pick(data *store.UserData, userID, mode string, typeFilter int) (models.RandomQuestion, error) {
	prog, ok := data.Progress(userID)
	if !ok {
		return models.RandomQuestion{}, ErrUserNotFound
	}

	questions := s.repo.GetAll()

	var pool []models.Question
	switch mode {
	case ModeUnanswered:
		for _, q := range questions {
			if !prog.Answered[q.ID] {
				pool = append(pool, q)
			}
		}
	case ModeWrong:
		for _, q := range questions {
			if prog.Wrong[q.ID] {
				pool = append(pool, q)
			}
		}
	case ModeImportant:
		for _, q := range questions {
			if prog.Important[q.ID] {
				pool = append(pool, q)
			}
		}
	default:
		pool = questions
	}
	if len(pool) == 0 {
		return models.RandomQuestion{}, ErrNoQuestionsInMode
	}

	if typeFilter == models.TypeSingleChoice || typeFilter == models.TypeMultiChoice || typeFilter == models.TypeTrueFalse {
		var filtered []models.Question
		for _, q := range pool {
			if q.Type == typeFilter {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) == 0 {
			return models.RandomQuestion{}, ErrNoQuestionsOfType
		}
		pool = filtered
	}

	question := pool[rand.Intn(len(pool))]

	if mode == ModeUnanswered {
		prog.Answered[question.ID] = true
		if err := s.store.Save(data); err != nil {
			utils.LogError("Persisting unanswered-mode pick failed: %v", err)
		}
	}

	return models.RandomQuestion{
		ID:          question.ID,
		Number:      question.Number,
		Content:     question.Content,
		Options:     question.Options,
		Type:        question.Type,
		Score:       question.Score,
		IsImportant: prog.Important[question.ID],
	}, nil
}

// Submit scores a practice answer and applies the consequences: the
// question is marked answered either way; an incorrect non-blank answer
// additionally joins the wrong set, bumps its wrong counter and appends a
// wrong record. A blank answer is reported incorrect but leaves the wrong
// bookkeeping untouched.
//
// The result is returned even when persisting fails; the save path logs
// and degrades instead of blocking the user.
func (s *Service) Submit(data *store.UserData, userID string, questionID int, answer models.AnswerValue) (models.SubmitResult, error) {
	question, ok := s.repo.ByID(questionID)
	if !ok {
		return models.SubmitResult{}, bank.ErrQuestionNotFound
	}

	prog, ok := data.Progress(userID)
	if !ok {
		return models.SubmitResult{}, ErrUserNotFound
	}

	prog.Answered[questionID] = true

	isCorrect, isUnanswered := Score(question, answer)
	if !isCorrect && !isUnanswered {
		prog.Wrong[questionID] = true
		prog.WrongCount[questionID]++
		data.WrongRecords[userID] = append(data.WrongRecords[userID], models.WrongRecord{
			QuestionID:      questionID,
			UserAnswer:      answer,
			CorrectAnswer:   question.CorrectAnswer,
			Timestamp:       utils.FormatISO(s.now()),
			QuestionContent: question.Content,
			Analysis:        question.Analysis,
			Type:            question.Type,
		})
	}

	if err := s.store.Save(data); err != nil {
		utils.LogError("Persisting answer for question %d failed: %v", questionID, err)
	}

	return models.SubmitResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Analysis:      question.Analysis,
	}, nil
}

// ToggleImportant sets or clears the bookmark flag. Clearing a flag that
// was never set is a no-op that still succeeds.
func (s *Service) ToggleImportant(data *store.UserData, userID string, questionID int, mark bool) error {
	prog, ok := data.Progress(userID)
	if !ok {
		return ErrUserNotFound
	}

	if mark {
		prog.Important[questionID] = true
	} else {
		delete(prog.Important, questionID)
	}

	if err := s.store.Save(data); err != nil {
		utils.LogError("Persisting bookmark for question %d failed: %v", questionID, err)
	}
	return nil
}
