package memory

import (
	"context"
	"sort"

	"studyhub/internal/domain"
)

// UpsertAttempt keys the attempt by user id under one lock, so it is atomic.
func (s *Store) UpsertAttempt(_ context.Context, a domain.QuizAttempt) (domain.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = a.UserID
	s.attempts[a.UserID] = a
	return a, nil
}

func (s *Store) ListAttemptsByUser(_ context.Context, userID string) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.attempts[userID]; ok {
		return []domain.QuizAttempt{a}, nil
	}
	return []domain.QuizAttempt{}, nil
}

// ListAttempts returns attempts ordered by student name.
func (s *Store) ListAttempts(_ context.Context) ([]domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentName != out[j].StudentName {
			return out[i].StudentName < out[j].StudentName
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
