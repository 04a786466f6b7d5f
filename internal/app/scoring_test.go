package app_test

import (
	"context"
	"errors"
	"testing"

	"studyhub/internal/app"
	"studyhub/internal/domain"
)

func TestScoreCountsExactMatches(t *testing.T) {
	quizzes := []domain.Quiz{
		{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{Question: "Capital of Italy?", Options: []string{"Rome", "Paris"}, CorrectAnswer: "Rome"},
		{Question: "Sky colour?", Options: []string{"Blue", "Green"}, CorrectAnswer: "Blue"},
	}
	cases := []struct {
		name    string
		answers map[int]string
		want    int
	}{
		{"none answered", map[int]string{}, 0},
		{"all correct", map[int]string{0: "4", 1: "Rome", 2: "Blue"}, 3},
		{"case sensitive", map[int]string{1: "rome"}, 0},
		{"mixed", map[int]string{0: "4", 1: "Paris"}, 1},
	}
	for _, tc := range cases {
		if got := app.Score(quizzes, tc.answers); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
	if got := app.Score(nil, map[int]string{0: "4"}); got != 0 {
		t.Fatalf("expected 0 for empty quiz set, got %d", got)
	}
}

func TestSubmitNotifiesAndToleratesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	attempt, err := f.submitter().Submit(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.UserID != "u1" || attempt.TotalMarks != 3 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
	if len(f.notifier.attempts) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.attempts))
	}
}

func TestSubmitWithoutNotifier(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	submitter := app.NewSubmitter(f.store, f.store, nil)

	if _, err := submitter.Submit(ctx, "u1", 2); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := submitter.Submit(ctx, "nobody", 2); !errors.Is(err, domain.ErrProfileMissing) {
		t.Fatalf("expected profile missing, got %v", err)
	}
}
