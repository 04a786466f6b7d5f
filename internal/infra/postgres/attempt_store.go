package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	"studyhub/internal/domain"
)

const attemptColumns = `id, student_name, total_marks, quiz_date, user_id`

// UpsertAttempt writes the user's single attempt row, replacing an earlier one.
func (s *Store) UpsertAttempt(ctx context.Context, a domain.QuizAttempt) (domain.QuizAttempt, error) {
	var out domain.QuizAttempt
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quiz_attempts (`+attemptColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			student_name = EXCLUDED.student_name,
			total_marks  = EXCLUDED.total_marks,
			quiz_date    = EXCLUDED.quiz_date
		RETURNING `+attemptColumns,
		a.UserID, a.StudentName, a.TotalMarks, a.QuizDate, a.UserID,
	).Scan(&out.ID, &out.StudentName, &out.TotalMarks, &out.QuizDate, &out.UserID)
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("upsert attempt: %w", err)
	}
	return out, nil
}

func (s *Store) ListAttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return scanAttempts(rows)
}

func (s *Store) ListAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts ORDER BY student_name, user_id`)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return scanAttempts(rows)
}

func scanAttempts(rows pgx.Rows) ([]domain.QuizAttempt, error) {
	defer rows.Close()
	attempts := []domain.QuizAttempt{}
	for rows.Next() {
		var a domain.QuizAttempt
		if err := rows.Scan(&a.ID, &a.StudentName, &a.TotalMarks, &a.QuizDate, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.QuizDate = a.QuizDate.UTC()
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
