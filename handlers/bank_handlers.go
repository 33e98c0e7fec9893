package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
)

type BankHandlers struct {
	store *store.Store
	repo  *bank.Repository
}

func NewBankHandlers(st *store.Store, repo *bank.Repository) *BankHandlers {
	return &BankHandlers{store: st, repo: repo}
}

func (bh *BankHandlers) GetQuestionBank(w http.ResponseWriter, r *http.Request) {
	bh.queryBank(w, r, false)
}

func (bh *BankHandlers) GetImportantBank(w http.ResponseWriter, r *http.Request) {
	bh.queryBank(w, r, true)
}

func (bh *BankHandlers) queryBank(w http.ResponseWriter, r *http.Request, importantOnly bool) {
	session := getSessionFromContext(r.Context())

	var req models.BankQueryRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	page := req.Page.Int()
	if page == 0 {
		page = 1
	}
	pageFor := func(f models.FlexInt) int {
		if f.Int() != 0 {
			return f.Int()
		}
		return page
	}

	data := bh.store.Load()
	prog, ok := data.Progress(session.UserID)
	if !ok {
		writeUserError(w, "User data not found")
		return
	}

	questions := bh.repo.GetAll()
	result := bank.Query(questions, prog, data.WrongRecords[session.UserID], bank.QueryOptions{
		TypeFilter:    req.TypeFilter,
		StatusFilter:  req.StatusFilter,
		SortBy:        req.SortBy,
		PageSize:      req.PageSize.Int(),
		PageSingle:    pageFor(req.PageSingle),
		PageMulti:     pageFor(req.PageMulti),
		PageTrueFalse: pageFor(req.PageTrueFalse),
		ImportantOnly: importantOnly,
	})

	writeJSON(w, http.StatusOK, result)
}

func (bh *BankHandlers) GetWrongQuestions(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.WrongQuestionsRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	data := bh.store.Load()
	prog, ok := data.Progress(session.UserID)
	if !ok {
		writeUserError(w, "User data not found")
		return
	}

	result := bank.WrongList(bh.repo.GetAll(), prog, data.WrongRecords[session.UserID], req.SortBy)
	writeJSON(w, http.StatusOK, result)
}

func (bh *BankHandlers) GetQuestionDetail(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	var req models.QuestionDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.QuestionID.Int() == 0 {
		writeFailure(w, "question_id is required")
		return
	}

	data := bh.store.Load()
	prog, ok := data.Progress(session.UserID)
	if !ok {
		writeUserError(w, "User data not found")
		return
	}

	detail, err := bank.Detail(bh.repo.GetAll(), prog, data.WrongRecords[session.UserID], req.QuestionID.Int())
	if err != nil {
		if errors.Is(err, bank.ErrQuestionNotFound) {
			writeUserError(w, "Question not found")
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "question": detail})
}

func (bh *BankHandlers) GetUserStats(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())

	data := bh.store.Load()
	prog, ok := data.Progress(session.UserID)
	if !ok {
		writeUserError(w, "User data not found")
		return
	}

	stats := bank.Stats(bh.repo.GetAll(), prog, data.ExamRecords[session.UserID])
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "stats": stats})
}
