package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (domain.Quiz, error) {
	var (
		q           domain.Quiz
		optionsJSON string
	)
	if err := row.Scan(&q.ID, &q.Question, &optionsJSON, &q.CorrectAnswer); err != nil {
		return domain.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return domain.Quiz{}, err
	}
	return q, nil
}

func (s *Store) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, options_json, correct_answer FROM quizzes ORDER BY created_at_unix, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []domain.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *Store) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question, options_json, correct_answer FROM quizzes WHERE id = ?`, id)
	q, err := scanQuiz(row)
	if err != nil {
		return domain.Quiz{}, rowNotFound(err, domain.ErrQuizNotFound)
	}
	return q, nil
}

func (s *Store) CreateQuiz(ctx context.Context, in domain.QuizInput) (string, error) {
	optionsJSON, err := json.Marshal(in.Options)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, question, options_json, correct_answer, created_at_unix) VALUES (?, ?, ?, ?, ?)`,
		id, in.Question, string(optionsJSON), in.CorrectAnswer, time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateQuiz merges patch into the stored row and checks the result inside
// one transaction. The store holds a single connection, so concurrent
// updates queue behind it.
func (s *Store) UpdateQuiz(ctx context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error) {
	if id == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Quiz{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, question, options_json, correct_answer FROM quizzes WHERE id = ?`, id)
	existing, err := scanQuiz(row)
	if err != nil {
		return domain.Quiz{}, rowNotFound(err, domain.ErrQuizNotFound)
	}
	merged := existing.Apply(patch)
	if check != nil {
		if err := check(merged); err != nil {
			return domain.Quiz{}, err
		}
	}
	optionsJSON, err := json.Marshal(merged.Options)
	if err != nil {
		return domain.Quiz{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE quizzes SET question = ?, options_json = ?, correct_answer = ? WHERE id = ?`,
		merged.Question, string(optionsJSON), merged.CorrectAnswer, id,
	); err != nil {
		return domain.Quiz{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Quiz{}, err
	}
	return merged, nil
}

func (s *Store) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, domain.ErrQuizNotFound)
}

