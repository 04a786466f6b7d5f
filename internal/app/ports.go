package app

import (
	"context"

	"studyhub/internal/domain"
)

// QuizLister is the read side an exam needs: the full quiz set.
type QuizLister interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// QuizStore persists quiz definitions (memory, Postgres, SQLite, cached).
type QuizStore interface {
	QuizLister
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	CreateQuiz(ctx context.Context, in domain.QuizInput) (string, error)
	// UpdateQuiz merges patch into the stored quiz and writes the result only
	// when check (if non-nil) accepts it. Read, check and write are atomic.
	// It returns domain.ErrQuizNotFound for an empty or unknown id.
	UpdateQuiz(ctx context.Context, id string, patch domain.QuizPatch, check func(domain.Quiz) error) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
}

// AttemptStore persists quiz attempts keyed by user id.
type AttemptStore interface {
	// UpsertAttempt atomically inserts or replaces the attempt of a.UserID.
	UpsertAttempt(ctx context.Context, a domain.QuizAttempt) (domain.QuizAttempt, error)
	ListAttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error)
	ListAttempts(ctx context.Context) ([]domain.QuizAttempt, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	SaveProfile(ctx context.Context, p domain.Profile) error
}

// MaterialStore persists study materials and students' saved copies.
type MaterialStore interface {
	CreateMaterial(ctx context.Context, m domain.StudyMaterial) (string, error)
	GetMaterial(ctx context.Context, id string) (domain.StudyMaterial, error)
	UpdateMaterial(ctx context.Context, m domain.StudyMaterial) error
	DeleteMaterial(ctx context.Context, id string) error
	// ListMaterials lists the materials of ownerID, or all of them when ownerID is empty.
	ListMaterials(ctx context.Context, ownerID string) ([]domain.StudyMaterial, error)

	CreateSaved(ctx context.Context, s domain.SavedMaterial) (string, error)
	GetSaved(ctx context.Context, id string) (domain.SavedMaterial, error)
	ListSaved(ctx context.Context, userID string) ([]domain.SavedMaterial, error)
	DeleteSaved(ctx context.Context, id string) error
}

// Identity is the identity provider: accounts, tokens and sign-out.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (domain.Token, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

// AttemptNotifier is told about every recorded attempt.
type AttemptNotifier interface {
	AttemptRecorded(ctx context.Context, attempt domain.QuizAttempt) error
}

// SessionRepository tracks the live exam session of each user (in-memory, Redis, etc).
type SessionRepository interface {
	// Replace registers session for userID and returns the session it displaced, if any.
	Replace(userID string, session *ExamSession) *ExamSession
	Get(userID string) (*ExamSession, bool)
	// Delete drops the entry only while it still points at session.
	Delete(userID string, session *ExamSession)
	// Active reports whether userID has an exam open, on any instance the
	// implementation can see.
	Active(ctx context.Context, userID string) (bool, error)
}
