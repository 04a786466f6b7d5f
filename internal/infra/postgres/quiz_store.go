package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studyhub/internal/domain"
)

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, question, options, correct_answer FROM quizzes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []domain.Quiz{}
	for rows.Next() {
		var q domain.Quiz
		if err := rows.Scan(&q.ID, &q.Question, &q.Options, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *Store) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var q domain.Quiz
	err := s.pool.QueryRow(ctx,
		`SELECT id, question, options, correct_answer FROM quizzes WHERE id=$1`, id,
	).Scan(&q.ID, &q.Question, &q.Options, &q.CorrectAnswer)
	if err != nil {
		return domain.Quiz{}, notFound(err, domain.ErrQuizNotFound, "get quiz")
	}
	return q, nil
}

func (s *Store) CreateQuiz(ctx context.Context, in domain.QuizInput) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quizzes (id, question, options, correct_answer) VALUES ($1, $2, $3, $4)`,
		id, in.Question, in.Options, in.CorrectAnswer,
	)
	if err != nil {
		return "", fmt.Errorf("create quiz: %w", err)
	}
	return id, nil
}

// UpdateQuiz locks the row, merges patch, checks the result and writes it
// back in one transaction, so concurrent patches never combine unchecked.
func (s *Store) UpdateQuiz(ctx context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error) {
	if id == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("begin update quiz: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing domain.Quiz
	err = tx.QueryRow(ctx,
		`SELECT id, question, options, correct_answer FROM quizzes WHERE id=$1 FOR UPDATE`, id,
	).Scan(&existing.ID, &existing.Question, &existing.Options, &existing.CorrectAnswer)
	if err != nil {
		return domain.Quiz{}, notFound(err, domain.ErrQuizNotFound, "lock quiz")
	}

	merged := existing.Apply(patch)
	if check != nil {
		if err := check(merged); err != nil {
			return domain.Quiz{}, err
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE quizzes SET question=$2, options=$3, correct_answer=$4 WHERE id=$1`,
		id, merged.Question, merged.Options, merged.CorrectAnswer,
	); err != nil {
		return domain.Quiz{}, fmt.Errorf("update quiz: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Quiz{}, fmt.Errorf("commit update quiz: %w", err)
	}
	return merged, nil
}

func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
