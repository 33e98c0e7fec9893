package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MegatronPika/question-system-v3/exam"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
)

type ExamHandlers struct {
	store   *store.Store
	manager *exam.Manager
}

func NewExamHandlers(st *store.Store, manager *exam.Manager) *ExamHandlers {
	return &ExamHandlers{store: st, manager: manager}
}

func (eh *ExamHandlers) StartExam(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	data := eh.store.Load()
	examSession, err := eh.manager.Start(data, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrInsufficientBank):
			writeUserError(w, "Not enough questions in the bank to build an exam")
		case errors.Is(err, exam.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, examSession)
}

func (eh *ExamHandlers) SubmitExam(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.SubmitExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ExamID == "" {
		writeFailure(w, "exam_id is required")
		return
	}

	data := eh.store.Load()
	result, err := eh.manager.Submit(data, session.UserID, req.ExamID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrExamNotFound):
			writeFailure(w, "Exam not found")
		case errors.Is(err, exam.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (eh *ExamHandlers) SaveExamProgress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.SubmitExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ExamID == "" {
		writeFailure(w, "exam_id is required")
		return
	}

	data := eh.store.Load()
	if err := eh.manager.SaveProgress(data, session.UserID, req.ExamID, req.Answers); err != nil {
		switch {
		case errors.Is(err, exam.ErrExamNotFound):
			writeFailure(w, "No ongoing exam with this id")
		case errors.Is(err, exam.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (eh *ExamHandlers) GetExamRecords(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.ExamRecordsRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	page := req.Page.Int()
	if page == 0 {
		page = 1
	}

	data := eh.store.Load()
	records, err := eh.manager.Records(data, session.UserID, page, req.PageSize.Int())
	if err != nil {
		if errors.Is(err, exam.ErrUserNotFound) {
			writeUserError(w, "User data not found")
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"records":    records.Records,
		"pagination": records.Pagination,
	})
}

func (eh *ExamHandlers) GetExamDetail(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.ExamDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ExamID == "" {
		writeFailure(w, "exam_id is required")
		return
	}

	data := eh.store.Load()
	detail, err := eh.manager.Detail(data, session.UserID, req.ExamID)
	if err != nil {
		switch {
		case errors.Is(err, exam.ErrExamNotFound):
			writeFailure(w, "Exam not found")
		case errors.Is(err, exam.ErrUserNotFound):
			writeUserError(w, "User data not found")
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "exam_detail": detail})
}
