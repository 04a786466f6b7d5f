package memory

import (
	"context"

	"studyhub/internal/domain"
)

// ListQuizzes returns quizzes in creation order.
func (s *Store) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(s.quizOrder))
	for _, id := range s.quizOrder {
		out = append(out, cloneQuiz(s.quizzes[id]))
	}
	return out, nil
}

func (s *Store) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *Store) CreateQuiz(_ context.Context, in domain.QuizInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.quizzes[id] = domain.Quiz{
		ID:            id,
		Question:      in.Question,
		Options:       append([]string(nil), in.Options...),
		CorrectAnswer: in.CorrectAnswer,
	}
	s.quizOrder = append(s.quizOrder, id)
	return id, nil
}

func (s *Store) UpdateQuiz(_ context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if id == "" || !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	merged := quiz.Apply(patch)
	if check != nil {
		if err := check(merged); err != nil {
			return domain.Quiz{}, err
		}
	}
	s.quizzes[id] = merged
	return cloneQuiz(merged), nil
}

func (s *Store) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, id)
	s.quizOrder = removeID(s.quizOrder, id)
	return nil
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	q.Options = append([]string(nil), q.Options...)
	return q
}
