package storage

import (
	"sync"

	"github.com/LandyLee-gdut/essay-grader/internal/models"
)

// SessionStore holds in-flight grading sessions in memory. Sessions exist
// only between upload and grading; completed runs live in the history file.
type SessionStore struct {
	sessions map[string]*models.GradingSession
	mu       sync.RWMutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.GradingSession),
	}
}

func (s *SessionStore) Get(sessionID string) (*models.GradingSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.GradingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) GetAll() map[string]*models.GradingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.GradingSession, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
