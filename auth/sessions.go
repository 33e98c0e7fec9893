package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/utils"
)

const sessionLifetime = 72 * time.Hour

// SessionStore keeps active login sessions in memory. Sessions do not
// survive a restart; the progress document does.
type SessionStore struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
}

func NewSessionStore() *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*models.Session),
	}

	// Start a cleanup goroutine
	go store.cleanupExpiredSessions()

	return store
}

func (s *SessionStore) CreateSession(userID string) *models.Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionLifetime),
	}

	s.sessions[session.Token] = session
	return session
}

func (s *SessionStore) GetSession(token string) (*models.Session, bool) {
	s.mutex.RLock()
	session, exists := s.sessions[token]
	s.mutex.RUnlock()
	if !exists {
		return nil, false
	}

	if time.Now().After(session.ExpiresAt) {
		s.DeleteSession(token)
		return nil, false
	}

	return session, true
}

func (s *SessionStore) DeleteSession(token string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, token)
}

func (s *SessionStore) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		cleaned := 0
		for token, session := range s.sessions {
			if now.After(session.ExpiresAt) {
				delete(s.sessions, token)
				cleaned++
			}
		}
		if cleaned > 0 {
			utils.LogInfo("Cleaned up %d expired sessions", cleaned)
		}
		s.mutex.Unlock()
	}
}
