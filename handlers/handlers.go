package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MegatronPika/question-system-v3/auth"
	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/config"
	"github.com/MegatronPika/question-system-v3/exam"
	"github.com/MegatronPika/question-system-v3/practice"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

// API wrapper to hold all handlers
type API struct {
	authHandlers     *AuthHandlers
	practiceHandlers *PracticeHandlers
	examHandlers     *ExamHandlers
	bankHandlers     *BankHandlers

	store     *store.Store
	backupKey string
}

func NewAPI(cfg *config.Config, st *store.Store, repo *bank.Repository, sessionStore *auth.SessionStore) *API {
	practiceSvc := practice.NewService(repo, st)
	examMgr := exam.NewManager(repo, st)

	return &API{
		authHandlers:     NewAuthHandlers(st, sessionStore),
		practiceHandlers: NewPracticeHandlers(st, practiceSvc),
		examHandlers:     NewExamHandlers(st, examMgr),
		bankHandlers:     NewBankHandlers(st, repo),
		store:            st,
		backupKey:        cfg.BackupKey,
	}
}

func NewRouter(cfg *config.Config, st *store.Store, repo *bank.Repository, sessionStore *auth.SessionStore) http.Handler {
	api := NewAPI(cfg, st, repo, sessionStore)
	requireAuth := authMiddleware(sessionStore)

	mux := http.NewServeMux()

	// Health check (no auth required)
	mux.HandleFunc("/health", healthCheck)

	// Auth endpoints (handle their own auth as needed)
	mux.HandleFunc("/auth/", api.authHandlers.HandleAuth)

	// Free practice
	mux.HandleFunc("/get_random_question", requireAuth(api.practiceHandlers.GetRandomQuestion))
	mux.HandleFunc("/submit_answer", requireAuth(api.practiceHandlers.SubmitAnswer))
	mux.HandleFunc("/toggle_important", requireAuth(api.practiceHandlers.ToggleImportant))

	// Exam lifecycle
	mux.HandleFunc("/start_exam", requireAuth(api.examHandlers.StartExam))
	mux.HandleFunc("/submit_exam", requireAuth(api.examHandlers.SubmitExam))
	mux.HandleFunc("/save_exam_progress", requireAuth(api.examHandlers.SaveExamProgress))
	mux.HandleFunc("/get_exam_records", requireAuth(api.examHandlers.GetExamRecords))
	mux.HandleFunc("/get_exam_detail", requireAuth(api.examHandlers.GetExamDetail))

	// Bank views
	mux.HandleFunc("/get_question_bank", requireAuth(api.bankHandlers.GetQuestionBank))
	mux.HandleFunc("/get_important_bank", requireAuth(api.bankHandlers.GetImportantBank))
	mux.HandleFunc("/get_wrong_questions", requireAuth(api.bankHandlers.GetWrongQuestions))
	mux.HandleFunc("/get_question_detail", requireAuth(api.bankHandlers.GetQuestionDetail))
	mux.HandleFunc("/get_user_stats", requireAuth(api.bankHandlers.GetUserStats))

	// Admin backup endpoint, guarded by a shared header key
	mux.HandleFunc("/api/backup", api.handleBackup)

	return corsMiddleware(loggingMiddleware(mux))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func (api *API) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if api.backupKey == "" || r.Header.Get("X-Backup-Key") != api.backupKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"backup_time":    utils.FormatISO(time.Now()),
		"backup_version": "1.0",
		"data":           api.store.Load(),
	})
}

// writeJSON sends a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

// writeUserError reports a user-facing condition (empty pool, unknown id)
// as a structured result so the page can render the message. These are not
// transport failures, hence 200.
func writeUserError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"error": msg})
}

// writeFailure is the {"success": false} variant some endpoints use.
func writeFailure(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": msg})
}
