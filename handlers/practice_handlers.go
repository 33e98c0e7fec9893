package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/practice"
	"github.com/MegatronPika/question-system-v3/store"
)

type PracticeHandlers struct {
	store   *store.Store
	service *practice.Service
}

func NewPracticeHandlers(st *store.Store, service *practice.Service) *PracticeHandlers {
	return &PracticeHandlers{store: st, service: service}
}

func (ph *PracticeHandlers) GetRandomQuestion(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.RandomQuestionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Mode == "" {
		req.Mode = practice.ModeAll
	}

	data := ph.store.Load()
	question, err := ph.service.Pick(data, session.UserID, req.Mode, req.QuestionType())
	if err != nil {
		switch {
		case errors.Is(err, practice.ErrNoQuestionsInMode):
			switch req.Mode {
			case practice.ModeUnanswered:
				writeUserError(w, "All questions answered, well done!")
			case practice.ModeWrong:
				writeUserError(w, "No wrong questions to review")
			case practice.ModeImportant:
				writeUserError(w, "No bookmarked questions")
			default:
				writeUserError(w, "Question bank is empty")
			}
		case errors.Is(err, practice.ErrNoQuestionsOfType):
			writeUserError(w, "No questions of this type in the current mode")
		case errors.Is(err, practice.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (ph *PracticeHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	data := ph.store.Load()
	result, err := ph.service.Submit(data, session.UserID, req.QuestionID.Int(), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, bank.ErrQuestionNotFound):
			writeUserError(w, "Question not found")
		case errors.Is(err, practice.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (ph *PracticeHandlers) ToggleImportant(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.ToggleImportantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.QuestionID.Int() == 0 {
		writeFailure(w, "question_id is required")
		return
	}

	mark := true
	if req.Mark != nil {
		mark = *req.Mark
	}

	data := ph.store.Load()
	if err := ph.service.ToggleImportant(data, session.UserID, req.QuestionID.Int(), mark); err != nil {
		if errors.Is(err, practice.ErrUserNotFound) {
			writeUserError(w, "User data not found")
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "is_important": mark})
}
