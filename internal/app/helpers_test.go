package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studyhub/internal/app"
	"studyhub/internal/domain"
	"studyhub/internal/infra/memory"
)

var errBackend = errors.New("backend unavailable")

// flakyQuizzes fails ListQuizzes while fail is set.
type flakyQuizzes struct {
	app.QuizLister
	mu   sync.Mutex
	fail bool
}

func (f *flakyQuizzes) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakyQuizzes) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return nil, errBackend
	}
	return f.QuizLister.ListQuizzes(ctx)
}

// flakyAttempts fails UpsertAttempt while fail is set.
type flakyAttempts struct {
	app.AttemptStore
	fail bool
}

func (f *flakyAttempts) UpsertAttempt(ctx context.Context, a domain.QuizAttempt) (domain.QuizAttempt, error) {
	if f.fail {
		return domain.QuizAttempt{}, errBackend
	}
	return f.AttemptStore.UpsertAttempt(ctx, a)
}

type recordingNotifier struct {
	mu       sync.Mutex
	attempts []domain.QuizAttempt
	err      error
}

func (n *recordingNotifier) AttemptRecorded(_ context.Context, a domain.QuizAttempt) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attempts = append(n.attempts, a)
	return n.err
}

type fixture struct {
	store    *memory.Store
	quizzes  *flakyQuizzes
	attempts *flakyAttempts
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T, quizzes ...domain.QuizInput) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, q := range quizzes {
		if _, err := store.CreateQuiz(ctx, q); err != nil {
			t.Fatalf("seed quiz: %v", err)
		}
	}
	if err := store.SaveProfile(ctx, domain.Profile{UserID: "u1", Name: "Alice", Age: 20, Role: domain.RoleStudent}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return &fixture{
		store:    store,
		quizzes:  &flakyQuizzes{QuizLister: store},
		attempts: &flakyAttempts{AttemptStore: store},
		notifier: &recordingNotifier{},
		now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) submitter() *app.Submitter {
	return app.NewSubmitterWithClock(f.store, f.attempts, f.notifier, func() time.Time { return f.now })
}

// session returns a manually ticked session for userID.
func (f *fixture) session(userID string) *app.ExamSession {
	return app.NewExamSession(userID, f.quizzes, f.submitter(), app.ExamConfig{QuestionSeconds: app.DefaultQuestionSeconds})
}

func arithmetic() domain.QuizInput {
	return domain.QuizInput{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: "4"}
}

func capitals() domain.QuizInput {
	return domain.QuizInput{Question: "Capital of Italy?", Options: []string{"Paris", "Rome", "Madrid", "Berlin"}, CorrectAnswer: "Rome"}
}

func tickN(s *app.ExamSession, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}
