package memory

import (
	"context"
	"sync"

	"studyhub/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.ExamSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.ExamSession),
	}
}

func (s *SessionStore) Replace(userID string, session *app.ExamSession) *app.ExamSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.sessions[userID]
	s.sessions[userID] = session
	return previous
}

func (s *SessionStore) Get(userID string) (*app.ExamSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Delete(userID string, session *app.ExamSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[userID]; ok && current == session {
		delete(s.sessions, userID)
	}
}

// Active reports whether this process holds a live session for userID.
func (s *SessionStore) Active(_ context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok, nil
}
