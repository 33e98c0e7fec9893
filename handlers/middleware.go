package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MegatronPika/question-system-v3/auth"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/utils"
)

// Context keys for storing user session
type contextKey string

const sessionContextKey contextKey = "session"

// extractSessionFromRequest gets the session token from the Authorization
// header or the session cookie.
func extractSessionFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")

	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// authMiddleware validates the session and adds it to the request context.
// Every route that needs a resolved user-progress document goes through
// here; handlers themselves never branch on "is logged in".
func authMiddleware(sessionStore *auth.SessionStore) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionFromRequest(r)
			if token == "" {
				http.Error(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			session, exists := sessionStore.GetSession(token)
			if !exists {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// getSessionFromContext extracts session from request context
func getSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		utils.LogHTTP("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Backup-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
