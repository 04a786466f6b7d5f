package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"studyhub/internal/domain"
)

// Score counts the questions whose stored answer equals the correct answer exactly.
// Unanswered questions count as incorrect.
func Score(quizzes []domain.Quiz, answers map[int]string) int {
	score := 0
	for i, quiz := range quizzes {
		if answer, ok := answers[i]; ok && answer == quiz.CorrectAnswer {
			score++
		}
	}
	return score
}

func breakdown(quizzes []domain.Quiz, answers map[int]string) []domain.QuestionResult {
	out := make([]domain.QuestionResult, 0, len(quizzes))
	for i, quiz := range quizzes {
		answer, ok := answers[i]
		out = append(out, domain.QuestionResult{
			Question:      quiz.Question,
			YourAnswer:    answer,
			CorrectAnswer: quiz.CorrectAnswer,
			Correct:       ok && answer == quiz.CorrectAnswer,
		})
	}
	return out
}

// Submitter records scored attempts, one per user.
type Submitter struct {
	profiles ProfileStore
	attempts AttemptStore
	notifier AttemptNotifier
	now      func() time.Time
}

// NewSubmitter wires the submission engine. notifier may be nil.
func NewSubmitter(profiles ProfileStore, attempts AttemptStore, notifier AttemptNotifier) *Submitter {
	return &Submitter{
		profiles: profiles,
		attempts: attempts,
		notifier: notifier,
		now:      time.Now,
	}
}

// NewSubmitterWithClock is test-only for deterministic attempt dates.
func NewSubmitterWithClock(profiles ProfileStore, attempts AttemptStore, notifier AttemptNotifier, now func() time.Time) *Submitter {
	s := NewSubmitter(profiles, attempts, notifier)
	s.now = now
	return s
}

// Submit resolves the student's name and upserts their attempt with score.
// Each step short-circuits the rest on failure.
func (s *Submitter) Submit(ctx context.Context, userID string, score int) (domain.QuizAttempt, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.QuizAttempt{}, fmt.Errorf("%w: user %s", domain.ErrProfileMissing, userID)
	}
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("%w: load profile: %w", domain.ErrWriteFailure, err)
	}

	attempt := domain.QuizAttempt{
		ID:          userID,
		StudentName: profile.Name,
		TotalMarks:  score,
		QuizDate:    s.now().UTC(),
		UserID:      userID,
	}
	saved, err := s.attempts.UpsertAttempt(ctx, attempt)
	if err != nil {
		return domain.QuizAttempt{}, fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}

	if s.notifier != nil {
		if err := s.notifier.AttemptRecorded(ctx, saved); err != nil {
			log.Printf("notify attempt for %s: %v", userID, err)
		}
	}
	return saved, nil
}
