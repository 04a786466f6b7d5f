package app

import (
	"context"
	"log"

	"studyhub/internal/domain"
)

// ExamService hands out exam sessions, at most one live session per student.
type ExamService struct {
	sessions  SessionRepository
	quizzes   QuizLister
	submitter *Submitter
	cfg       ExamConfig
}

func NewExamService(store SessionRepository, quizzes QuizLister, submitter *Submitter, cfg ExamConfig) *ExamService {
	return &ExamService{sessions: store, quizzes: quizzes, submitter: submitter, cfg: cfg}
}

// Open creates a fresh session for userID. A session the user still had open
// elsewhere is closed, so starting a new exam always overwrites the old one.
func (s *ExamService) Open(userID string) *ExamSession {
	session := NewExamSession(userID, s.quizzes, s.submitter, s.cfg)
	if previous := s.sessions.Replace(userID, session); previous != nil {
		previous.Close()
	}
	return session
}

// Current returns the live session of userID, if any.
func (s *ExamService) Current(userID string) (*ExamSession, bool) {
	return s.sessions.Get(userID)
}

// Release closes session and forgets it unless it has already been replaced.
func (s *ExamService) Release(session *ExamSession) {
	session.Close()
	s.sessions.Delete(session.UserID(), session)
}

// Roster pairs each attempt with whether its student is in an exam right now.
// A liveness lookup that fails is logged and reported as not in an exam.
func (s *ExamService) Roster(ctx context.Context, attempts []domain.QuizAttempt) []domain.AttemptStatus {
	out := make([]domain.AttemptStatus, 0, len(attempts))
	for _, attempt := range attempts {
		active, err := s.sessions.Active(ctx, attempt.UserID)
		if err != nil {
			log.Printf("exam liveness for %s: %v", attempt.UserID, err)
		}
		out = append(out, domain.AttemptStatus{QuizAttempt: attempt, InExam: active})
	}
	return out
}
