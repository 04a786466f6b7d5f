package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the single-node SQLite backend.
type Store struct {
	db *sql.DB
}

// NewStore opens path (":memory:" works for tests) and creates the schema.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "studyhub.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// one connection keeps writes serialized and ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			question TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			user_id TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			student_name TEXT NOT NULL,
			total_marks INTEGER NOT NULL,
			quiz_date_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			role TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS credentials (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS study_materials (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			url TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saved_materials (
			id TEXT PRIMARY KEY,
			material_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			url TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at_unix);`,
		`CREATE INDEX IF NOT EXISTS idx_materials_user ON study_materials(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_user ON saved_materials(user_id);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func rowNotFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func affected(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
