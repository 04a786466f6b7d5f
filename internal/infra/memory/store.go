package memory

import (
	"sync"

	"github.com/google/uuid"

	"studyhub/internal/domain"
)

// Store keeps every record in process memory. It implements the app store
// interfaces plus auth.CredentialStore and is the default backend for demos and tests.
type Store struct {
	mu sync.RWMutex

	quizzes   map[string]domain.Quiz
	quizOrder []string
	attempts  map[string]domain.QuizAttempt
	profiles  map[string]domain.Profile
	materials map[string]domain.StudyMaterial
	matOrder  []string
	saved     map[string]domain.SavedMaterial
	savOrder  []string
	creds     map[string]domain.Credential

	newID func() string
}

func NewStore() *Store {
	return &Store{
		quizzes:   make(map[string]domain.Quiz),
		attempts:  make(map[string]domain.QuizAttempt),
		profiles:  make(map[string]domain.Profile),
		materials: make(map[string]domain.StudyMaterial),
		saved:     make(map[string]domain.SavedMaterial),
		creds:     make(map[string]domain.Credential),
		newID:     func() string { return uuid.NewString() },
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
