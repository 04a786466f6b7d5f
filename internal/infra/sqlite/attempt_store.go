package sqlite

import (
	"context"
	"database/sql"
	"time"

	"studyhub/internal/domain"
)

// UpsertAttempt keeps a single row per user; a later attempt overwrites it.
func (s *Store) UpsertAttempt(ctx context.Context, a domain.QuizAttempt) (domain.QuizAttempt, error) {
	a.ID = a.UserID
	a.QuizDate = a.QuizDate.UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_attempts (user_id, id, student_name, total_marks, quiz_date_unix)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			student_name = excluded.student_name,
			total_marks = excluded.total_marks,
			quiz_date_unix = excluded.quiz_date_unix`,
		a.UserID, a.ID, a.StudentName, a.TotalMarks, a.QuizDate.UnixNano(),
	)
	if err != nil {
		return domain.QuizAttempt{}, err
	}
	return a, nil
}

func (s *Store) ListAttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_name, total_marks, quiz_date_unix, user_id FROM quiz_attempts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

func (s *Store) ListAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_name, total_marks, quiz_date_unix, user_id FROM quiz_attempts ORDER BY student_name, user_id`)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]domain.QuizAttempt, error) {
	defer rows.Close()
	attempts := []domain.QuizAttempt{}
	for rows.Next() {
		var (
			a    domain.QuizAttempt
			unix int64
		)
		if err := rows.Scan(&a.ID, &a.StudentName, &a.TotalMarks, &unix, &a.UserID); err != nil {
			return nil, err
		}
		a.QuizDate = time.Unix(0, unix).UTC()
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
