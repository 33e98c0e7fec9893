package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/MegatronPika/question-system-v3/auth"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

type AuthHandlers struct {
	store        *store.Store
	sessionStore *auth.SessionStore
}

func NewAuthHandlers(st *store.Store, sessionStore *auth.SessionStore) *AuthHandlers {
	return &AuthHandlers{store: st, sessionStore: sessionStore}
}

func (ah *AuthHandlers) HandleAuth(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/auth/")

	switch path {
	case "register":
		ah.register(w, r)
	case "login":
		ah.login(w, r)
	case "logout":
		ah.logout(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (ah *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeFailure(w, "Username and password are required")
		return
	}
	if len(req.Username) < 3 {
		writeFailure(w, "Username must be at least 3 characters")
		return
	}
	if len(req.Password) < 6 {
		writeFailure(w, "Password must be at least 6 characters")
		return
	}
	if req.Password != req.ConfirmPassword {
		writeFailure(w, "Passwords do not match")
		return
	}

	data := ah.store.Load()
	if _, exists := data.Profiles[req.Username]; exists {
		writeFailure(w, "Username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Password hashing failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data.Register(req.Username, &models.UserProfile{
		PasswordHash: hash,
		CreatedTime:  utils.FormatISO(time.Now()),
	})

	if err := ah.store.Save(data); err != nil {
		utils.LogError("Persisting registration of %s failed: %v", req.Username, err)
	}

	utils.LogInfo("Registered user %s", req.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Registered, please log in"})
}

func (ah *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	data := ah.store.Load()
	profile, exists := data.Profiles[req.Username]
	if !exists {
		writeFailure(w, "Unknown username")
		return
	}
	if !utils.CheckPassword(profile.PasswordHash, req.Password) {
		writeFailure(w, "Wrong password")
		return
	}

	session := ah.sessionStore.CreateSession(req.Username)

	profile.LastLogin = utils.FormatISO(time.Now())
	profile.LastIP = clientIP(r)
	profile.LastUserAgent = r.Header.Get("User-Agent")
	if err := ah.store.Save(data); err != nil {
		utils.LogError("Persisting login metadata for %s failed: %v", req.Username, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	})

	utils.LogInfo("User %s logged in from %s", req.Username, profile.LastIP)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Logged in",
		"session_id": session.Token,
	})
}

func (ah *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if token := extractSessionFromRequest(r); token != "" {
		ah.sessionStore.DeleteSession(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:    "session_id",
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// clientIP prefers the forwarded address when the app sits behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}
