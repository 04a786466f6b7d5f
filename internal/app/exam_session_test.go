package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

func TestSingleQuestionScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	s := f.session("u1")

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.SelectOption("4"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.RequestSubmit(); err != nil {
		t.Fatalf("request submit: %v", err)
	}
	result, err := s.ConfirmSubmit(ctx)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.TotalMarks != 1 {
		t.Fatalf("expected score 1, got %d", result.TotalMarks)
	}
	if view := s.Snapshot(); view.Phase != domain.PhaseShowingResults {
		t.Fatalf("expected results phase, got %s", view.Phase)
	}

	attempts, _ := f.store.ListAttemptsByUser(ctx, "u1")
	if len(attempts) != 1 || attempts[0].TotalMarks != 1 || attempts[0].StudentName != "Alice" {
		t.Fatalf("expected one attempt with score 1, got %+v", attempts)
	}
	if !attempts[0].QuizDate.Equal(f.now) {
		t.Fatalf("expected attempt date %v, got %v", f.now, attempts[0].QuizDate)
	}
}

func TestEmptyQuizSetIsValid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session("u1")

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	view := s.Snapshot()
	if view.Phase != domain.PhaseInProgress || view.Total != 0 || view.Current != nil {
		t.Fatalf("expected empty in-progress session, got %+v", view)
	}
	if err := s.SelectOption("anything"); !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
	if err := s.RequestSubmit(); err != nil {
		t.Fatalf("request submit: %v", err)
	}
	result, err := s.ConfirmSubmit(ctx)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.TotalMarks != 0 {
		t.Fatalf("expected score 0, got %d", result.TotalMarks)
	}
}

func TestNextAtLastIndexAwaitsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)

	_ = s.Next()
	if view := s.Snapshot(); view.Index != 1 || view.Phase != domain.PhaseInProgress {
		t.Fatalf("expected index 1 in progress, got %+v", view)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next at last index: %v", err)
	}
	view := s.Snapshot()
	if view.Phase != domain.PhaseAwaitingConfirmation || view.Index != 1 {
		t.Fatalf("expected confirmation at index 1, got phase=%s index=%d", view.Phase, view.Index)
	}
}

func TestPreviousAtFirstIndexIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)

	tickN(s, 5)
	if err := s.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	view := s.Snapshot()
	if view.Index != 0 || view.Remaining != 55 {
		t.Fatalf("expected untouched session at index 0 with 55s, got %+v", view)
	}

	_ = s.Next()
	tickN(s, 10)
	_ = s.Previous()
	view = s.Snapshot()
	if view.Index != 0 || view.Remaining != app.DefaultQuestionSeconds {
		t.Fatalf("expected back at index 0 with reset timer, got %+v", view)
	}
}

func TestSelectOptionOverwritesAndIsScopedToIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)

	_ = s.SelectOption("3")
	_ = s.SelectOption("4")
	if view := s.Snapshot(); view.Selected != "4" || view.Answered != 1 {
		t.Fatalf("expected overwritten answer, got %+v", view)
	}
	if err := s.SelectOption("Rome"); !errors.Is(err, domain.ErrOptionNotFound) {
		t.Fatalf("expected option of another question to be rejected, got %v", err)
	}
	_ = s.Next()
	if view := s.Snapshot(); view.Selected != "" {
		t.Fatalf("expected no selection on second question, got %q", view.Selected)
	}
}

func TestSelectOptionOutsideInProgressIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	s := f.session("u1")

	if err := s.SelectOption("4"); err != nil {
		t.Fatalf("select before start: %v", err)
	}
	_ = s.Start(ctx)
	_ = s.RequestSubmit()
	if err := s.SelectOption("4"); err != nil {
		t.Fatalf("select while confirming: %v", err)
	}
	if view := s.Snapshot(); view.Answered != 0 {
		t.Fatalf("expected no answers recorded, got %d", view.Answered)
	}
}

func TestTimerExpiryAdvancesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals(), arithmetic())
	s := f.session("u1")
	_ = s.Start(ctx)

	events, cancel := s.Subscribe()
	defer cancel()
	<-events // initial snapshot

	tickN(s, app.DefaultQuestionSeconds)

	view := s.Snapshot()
	if view.Index != 1 || view.Remaining != app.DefaultQuestionSeconds || view.Phase != domain.PhaseInProgress {
		t.Fatalf("expected single advance with reset timer, got %+v", view)
	}

	timeUps := 0
	for done := false; !done; {
		select {
		case ev := <-events:
			if ev.Type == domain.ExamEventTimeUp {
				timeUps++
				if ev.Notice == "" {
					t.Fatalf("expected a time-up notice")
				}
			}
		default:
			done = true
		}
	}
	if timeUps != 1 {
		t.Fatalf("expected exactly one time-up notice, got %d", timeUps)
	}
}

func TestBothTimersExpireThenConfirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)

	_ = s.SelectOption("4")
	tickN(s, app.DefaultQuestionSeconds)
	_ = s.SelectOption("Paris")
	tickN(s, app.DefaultQuestionSeconds)

	if view := s.Snapshot(); view.Phase != domain.PhaseAwaitingConfirmation {
		t.Fatalf("expected confirmation after second expiry, got %s", view.Phase)
	}
	// further ticks are ignored while confirming
	tickN(s, 5)

	result, err := s.ConfirmSubmit(ctx)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.TotalMarks != 1 {
		t.Fatalf("expected score 1, got %d", result.TotalMarks)
	}
	if view := s.Snapshot(); view.Phase != domain.PhaseShowingResults {
		t.Fatalf("expected results, got %s", view.Phase)
	}
	if !result.Questions[0].Correct || result.Questions[1].Correct {
		t.Fatalf("unexpected breakdown: %+v", result.Questions)
	}
}

func TestCancelSubmitResumesCountdown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)

	tickN(s, 20)
	_ = s.RequestSubmit()
	tickN(s, 10) // paused
	if err := s.CancelSubmit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	view := s.Snapshot()
	if view.Phase != domain.PhaseInProgress || view.Remaining != 40 || view.Index != 0 {
		t.Fatalf("expected resume at 40s on question 0, got %+v", view)
	}
}

func TestCancelAfterLastQuestionExpiredRestartsCountdown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	s := f.session("u1")
	_ = s.Start(ctx)

	tickN(s, app.DefaultQuestionSeconds)
	_ = s.CancelSubmit()
	if view := s.Snapshot(); view.Remaining != app.DefaultQuestionSeconds {
		t.Fatalf("expected full countdown after a spent one, got %d", view.Remaining)
	}
}

func TestStartFailureIsSurfaced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	f.quizzes.setFail(true)
	s := f.session("u1")

	err := s.Start(ctx)
	if !errors.Is(err, domain.ErrFetchFailure) || !errors.Is(err, errBackend) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if view := s.Snapshot(); view.Phase != domain.PhaseNotStarted {
		t.Fatalf("expected session not to advance, got %s", view.Phase)
	}

	f.quizzes.setFail(false)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("retry start: %v", err)
	}
}

func TestConfirmFailureKeepsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	f.attempts.fail = true
	s := f.session("u1")
	_ = s.Start(ctx)
	_ = s.SelectOption("4")
	_ = s.RequestSubmit()

	_, err := s.ConfirmSubmit(ctx)
	if !errors.Is(err, domain.ErrWriteFailure) {
		t.Fatalf("expected write failure, got %v", err)
	}
	if view := s.Snapshot(); view.Phase != domain.PhaseAwaitingConfirmation || view.Busy {
		t.Fatalf("expected to stay in confirmation, got %+v", view)
	}

	f.attempts.fail = false
	result, err := s.ConfirmSubmit(ctx)
	if err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if result.TotalMarks != 1 {
		t.Fatalf("expected score 1, got %d", result.TotalMarks)
	}
}

func TestConfirmWithoutProfileFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	s := f.session("ghost")
	_ = s.Start(ctx)
	_ = s.RequestSubmit()

	if _, err := s.ConfirmSubmit(ctx); !errors.Is(err, domain.ErrProfileMissing) {
		t.Fatalf("expected profile missing, got %v", err)
	}
	attempts, _ := f.store.ListAttempts(ctx)
	if len(attempts) != 0 {
		t.Fatalf("expected no attempt written, got %+v", attempts)
	}
}

func TestRepeatedSubmissionsKeepOneAttempt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())

	for _, answer := range []string{"4", "3"} {
		s := f.session("u1")
		_ = s.Start(ctx)
		_ = s.SelectOption(answer)
		_ = s.RequestSubmit()
		if _, err := s.ConfirmSubmit(ctx); err != nil {
			t.Fatalf("confirm: %v", err)
		}
	}

	attempts, _ := f.store.ListAttemptsByUser(ctx, "u1")
	if len(attempts) != 1 || attempts[0].TotalMarks != 0 {
		t.Fatalf("expected one attempt with latest score 0, got %+v", attempts)
	}
	if len(f.notifier.attempts) != 2 {
		t.Fatalf("expected two notifications, got %d", len(f.notifier.attempts))
	}
}

func TestIntentsRejectedWhileBusy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	gate := &gatedQuizzes{QuizLister: f.store, release: make(chan struct{}), entered: make(chan struct{})}
	s := app.NewExamSession("u1", gate, f.submitter(), app.ExamConfig{})

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	<-gate.entered

	if err := s.Next(); !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("expected busy, got %v", err)
	}
	if view := s.Snapshot(); !view.Busy {
		t.Fatalf("expected busy view")
	}
	close(gate.release)
	if err := <-done; err != nil {
		t.Fatalf("start: %v", err)
	}
}

func TestRestartDiscardsPreviousAttempt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := f.session("u1")
	_ = s.Start(ctx)
	_ = s.SelectOption("4")
	_ = s.Next()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	view := s.Snapshot()
	if view.Index != 0 || view.Answered != 0 || view.Remaining != app.DefaultQuestionSeconds {
		t.Fatalf("expected fresh session, got %+v", view)
	}
}

func TestClosedSessionRejectsIntents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic())
	s := f.session("u1")
	_ = s.Start(ctx)

	events, _ := s.Subscribe()
	s.Close()
	for range events {
	}
	if err := s.Next(); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected closed, got %v", err)
	}
}

func TestBackgroundTimerAutoAdvances(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, arithmetic(), capitals())
	s := app.NewExamSession("u1", f.quizzes, f.submitter(), app.ExamConfig{QuestionSeconds: 2, TickInterval: 5 * time.Millisecond})
	defer s.Close()

	events, cancel := s.Subscribe()
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.View.Phase == domain.PhaseAwaitingConfirmation {
				if ev.View.Index != 1 {
					t.Fatalf("expected confirmation on last question, got index %d", ev.View.Index)
				}
				return
			}
		case <-deadline:
			t.Fatalf("timer never drove the session to confirmation: %+v", s.Snapshot())
		}
	}
}

type gatedQuizzes struct {
	app.QuizLister
	entered chan struct{}
	release chan struct{}
}

func (g *gatedQuizzes) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	close(g.entered)
	<-g.release
	return g.QuizLister.ListQuizzes(ctx)
}
