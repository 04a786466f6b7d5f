package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyhub/internal/domain"
)

const (
	// DefaultQuestionSeconds is the countdown each question starts with.
	DefaultQuestionSeconds = 60
	timeUpNotice           = "time up for this question"
)

// ExamConfig tunes the per-question countdown.
type ExamConfig struct {
	QuestionSeconds int
	// TickInterval is the countdown step; zero disables the background timer
	// and leaves the countdown to explicit Tick calls.
	TickInterval time.Duration
}

// DefaultExamConfig ticks once per second from 60.
func DefaultExamConfig() ExamConfig {
	return ExamConfig{QuestionSeconds: DefaultQuestionSeconds, TickInterval: time.Second}
}

// ExamSession is one student's in-progress pass through the quiz set.
// It is owned by the connection that opened it and never shared.
type ExamSession struct {
	userID    string
	quizzes   QuizLister
	submitter *Submitter
	cfg       ExamConfig

	mu        sync.Mutex
	phase     domain.Phase
	items     []domain.Quiz
	index     int
	answers   map[int]string
	remaining int
	busy      bool
	closed    bool
	result    *domain.ExamResult

	timer    *QuestionTimer
	timerGen uint64

	subscribers map[chan domain.ExamEvent]struct{}
}

// NewExamSession creates a session in PhaseNotStarted.
func NewExamSession(userID string, quizzes QuizLister, submitter *Submitter, cfg ExamConfig) *ExamSession {
	if cfg.QuestionSeconds <= 0 {
		cfg.QuestionSeconds = DefaultQuestionSeconds
	}
	return &ExamSession{
		userID:      userID,
		quizzes:     quizzes,
		submitter:   submitter,
		cfg:         cfg,
		phase:       domain.PhaseNotStarted,
		answers:     make(map[int]string),
		remaining:   cfg.QuestionSeconds,
		subscribers: make(map[chan domain.ExamEvent]struct{}),
	}
}

// UserID returns the student the session belongs to.
func (s *ExamSession) UserID() string {
	return s.userID
}

// Start snapshots the quiz set and begins at the first question. Starting again
// discards the previous attempt. A failed fetch leaves the session where it was.
func (s *ExamSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if err := s.acceptLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.busy = true
	s.stopTimerLocked()
	s.mu.Unlock()

	quizzes, err := s.quizzes.ListQuizzes(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.closed {
		return domain.ErrSessionClosed
	}
	if err != nil {
		if s.phase == domain.PhaseInProgress {
			s.startTimerLocked()
		}
		return fmt.Errorf("%w: %w", domain.ErrFetchFailure, err)
	}

	s.items = append([]domain.Quiz(nil), quizzes...)
	s.index = 0
	s.answers = make(map[int]string)
	s.result = nil
	s.remaining = s.cfg.QuestionSeconds
	s.phase = domain.PhaseInProgress
	s.startTimerLocked()
	s.broadcastLocked(domain.ExamEventState, "")
	return nil
}

// SelectOption records option as the answer to the current question,
// replacing any earlier choice. Outside PhaseInProgress it does nothing.
func (s *ExamSession) SelectOption(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return err
	}
	if s.phase != domain.PhaseInProgress {
		return nil
	}
	if s.index >= len(s.items) || !hasOption(s.items[s.index], option) {
		return domain.ErrOptionNotFound
	}
	s.answers[s.index] = option
	s.broadcastLocked(domain.ExamEventState, "")
	return nil
}

// Next moves to the following question, or asks for confirmation on the last one.
func (s *ExamSession) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return err
	}
	if s.phase != domain.PhaseInProgress {
		return nil
	}
	s.advanceLocked()
	return nil
}

// Previous moves back one question; at the first question it does nothing.
func (s *ExamSession) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return err
	}
	if s.phase != domain.PhaseInProgress || s.index == 0 {
		return nil
	}
	s.index--
	s.remaining = s.cfg.QuestionSeconds
	s.restartTimerLocked()
	s.broadcastLocked(domain.ExamEventState, "")
	return nil
}

// RequestSubmit opens the confirmation step from any question.
func (s *ExamSession) RequestSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return err
	}
	switch s.phase {
	case domain.PhaseAwaitingConfirmation:
		return nil
	case domain.PhaseInProgress:
		s.phase = domain.PhaseAwaitingConfirmation
		s.stopTimerLocked()
		s.broadcastLocked(domain.ExamEventState, "")
		return nil
	}
	return domain.ErrInvalidPhase
}

// CancelSubmit returns to the current question. The countdown resumes from the
// value it had when confirmation was requested; a spent countdown starts over.
func (s *ExamSession) CancelSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return err
	}
	switch s.phase {
	case domain.PhaseInProgress:
		return nil
	case domain.PhaseAwaitingConfirmation:
		s.phase = domain.PhaseInProgress
		if s.remaining <= 0 {
			s.remaining = s.cfg.QuestionSeconds
		}
		s.startTimerLocked()
		s.broadcastLocked(domain.ExamEventState, "")
		return nil
	}
	return domain.ErrInvalidPhase
}

// ConfirmSubmit scores the answers and records the attempt. On failure the
// session stays in PhaseAwaitingConfirmation so the caller can retry.
func (s *ExamSession) ConfirmSubmit(ctx context.Context) (domain.ExamResult, error) {
	s.mu.Lock()
	if err := s.acceptLocked(); err != nil {
		s.mu.Unlock()
		return domain.ExamResult{}, err
	}
	if s.phase != domain.PhaseAwaitingConfirmation {
		s.mu.Unlock()
		return domain.ExamResult{}, domain.ErrInvalidPhase
	}
	s.busy = true
	items := s.items
	answers := make(map[int]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.mu.Unlock()

	score := Score(items, answers)
	attempt, err := s.submitter.Submit(ctx, s.userID, score)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return domain.ExamResult{}, err
	}
	result := domain.ExamResult{
		TotalMarks: score,
		Questions:  breakdown(items, answers),
		Attempt:    attempt,
	}
	if s.closed {
		return result, nil
	}
	s.result = &result
	s.phase = domain.PhaseShowingResults
	s.broadcastLocked(domain.ExamEventState, "")
	return result, nil
}

// Tick advances the countdown by one step. The background timer calls it once
// per TickInterval; with a zero interval the caller drives it.
func (s *ExamSession) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// Snapshot returns the current view of the session.
func (s *ExamSession) Snapshot() domain.ExamView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel of session events, starting with the current state.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ExamSession) Subscribe() (<-chan domain.ExamEvent, func()) {
	ch := make(chan domain.ExamEvent, 16)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- domain.ExamEvent{Type: domain.ExamEventState, View: s.snapshotLocked()}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close tears the session down: the timer stops and subscriptions end.
func (s *ExamSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *ExamSession) acceptLocked() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.busy {
		return domain.ErrSessionBusy
	}
	return nil
}

// advanceLocked is Next without the guards; timer expiry reuses it.
func (s *ExamSession) advanceLocked() {
	if s.index < len(s.items)-1 {
		s.index++
		s.remaining = s.cfg.QuestionSeconds
		s.restartTimerLocked()
	} else {
		s.phase = domain.PhaseAwaitingConfirmation
		s.stopTimerLocked()
	}
	s.broadcastLocked(domain.ExamEventState, "")
}

func (s *ExamSession) tickLocked() {
	if s.closed || s.busy || s.phase != domain.PhaseInProgress {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.broadcastLocked(domain.ExamEventTick, "")
		return
	}
	s.remaining = 0
	s.broadcastLocked(domain.ExamEventTimeUp, timeUpNotice)
	s.advanceLocked()
}

func (s *ExamSession) tickGen(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.timerGen {
		return
	}
	s.tickLocked()
}

func (s *ExamSession) startTimerLocked() {
	if s.timer != nil {
		return
	}
	s.timerGen++
	if s.cfg.TickInterval <= 0 {
		return
	}
	gen := s.timerGen
	s.timer = StartQuestionTimer(s.cfg.TickInterval, func() { s.tickGen(gen) })
}

func (s *ExamSession) stopTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *ExamSession) restartTimerLocked() {
	s.stopTimerLocked()
	s.startTimerLocked()
}

func (s *ExamSession) broadcastLocked(typ domain.ExamEventType, notice string) {
	event := domain.ExamEvent{Type: typ, View: s.snapshotLocked(), Notice: notice}
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// drop the oldest event so a slow reader never blocks the session
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

func (s *ExamSession) snapshotLocked() domain.ExamView {
	view := domain.ExamView{
		Phase:     s.phase,
		Index:     s.index,
		Total:     len(s.items),
		Answered:  len(s.answers),
		Remaining: s.remaining,
		Busy:      s.busy,
		Result:    s.result,
	}
	if s.phase != domain.PhaseNotStarted && s.index < len(s.items) {
		quiz := s.items[s.index]
		view.Current = &domain.QuestionView{
			ID:       quiz.ID,
			Index:    s.index,
			Question: quiz.Question,
			Options:  append([]string(nil), quiz.Options...),
		}
		view.Selected = s.answers[s.index]
	}
	return view
}

func hasOption(quiz domain.Quiz, option string) bool {
	for _, opt := range quiz.Options {
		if opt == option {
			return true
		}
	}
	return false
}
