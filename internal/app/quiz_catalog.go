package app

import (
	"context"
	"strings"

	"studyhub/internal/domain"
)

// QuizCatalog is the teacher's quiz authoring surface plus the read views.
type QuizCatalog struct {
	quizzes  QuizStore
	attempts AttemptStore
}

func NewQuizCatalog(quizzes QuizStore, attempts AttemptStore) *QuizCatalog {
	return &QuizCatalog{quizzes: quizzes, attempts: attempts}
}

// List returns every quiz including its correct answer.
func (c *QuizCatalog) List(ctx context.Context) ([]domain.Quiz, error) {
	return c.quizzes.ListQuizzes(ctx)
}

// ListQuestions returns the quiz set with correct answers stripped.
func (c *QuizCatalog) ListQuestions(ctx context.Context) ([]domain.QuestionView, error) {
	quizzes, err := c.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.QuestionView, 0, len(quizzes))
	for i, q := range quizzes {
		views = append(views, domain.QuestionView{
			ID:       q.ID,
			Index:    i,
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		})
	}
	return views, nil
}

// Create validates and stores a new quiz.
func (c *QuizCatalog) Create(ctx context.Context, in domain.QuizInput) (domain.Quiz, error) {
	if err := validateQuiz(in); err != nil {
		return domain.Quiz{}, err
	}
	id, err := c.quizzes.CreateQuiz(ctx, in)
	if err != nil {
		return domain.Quiz{}, err
	}
	return domain.Quiz{
		ID:            id,
		Question:      in.Question,
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
	}, nil
}

// Update merges patch into the stored quiz; the merged quiz must still be well formed.
func (c *QuizCatalog) Update(ctx context.Context, id string, patch domain.QuizPatch) (domain.Quiz, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return c.quizzes.UpdateQuiz(ctx, id, patch, func(merged domain.Quiz) error {
		return validateQuiz(merged.Input())
	})
}

func (c *QuizCatalog) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrQuizNotFound
	}
	return c.quizzes.DeleteQuiz(ctx, id)
}

// Attempts lists every student's attempt, for the teacher's marks view.
func (c *QuizCatalog) Attempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	return c.attempts.ListAttempts(ctx)
}

// AttemptsOf lists the attempts recorded for one student.
func (c *QuizCatalog) AttemptsOf(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	return c.attempts.ListAttemptsByUser(ctx, userID)
}
