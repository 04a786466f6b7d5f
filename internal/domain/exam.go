package domain

// Phase is the lifecycle stage of an exam session.
type Phase string

const (
	PhaseNotStarted           Phase = "notStarted"
	PhaseInProgress           Phase = "inProgress"
	PhaseAwaitingConfirmation Phase = "awaitingConfirmation"
	PhaseShowingResults       Phase = "showingResults"
)

// QuestionView is a quiz as shown to a student: no correct answer.
type QuestionView struct {
	ID       string   `json:"id"`
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuestionResult is the per-question breakdown shown with the results.
type QuestionResult struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// ExamResult is produced once a submission has been recorded.
type ExamResult struct {
	TotalMarks int              `json:"totalMarks"`
	Questions  []QuestionResult `json:"questions"`
	Attempt    QuizAttempt      `json:"attempt"`
}

// ExamView is a snapshot of a session for presentation.
type ExamView struct {
	Phase     Phase         `json:"phase"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Current   *QuestionView `json:"current,omitempty"`
	Selected  string        `json:"selected,omitempty"`
	Answered  int           `json:"answered"`
	Remaining int           `json:"remaining"`
	Busy      bool          `json:"busy"`
	Result    *ExamResult   `json:"result,omitempty"`
}

// ExamEventType tags the events a session pushes to its subscribers.
type ExamEventType string

const (
	ExamEventState  ExamEventType = "state"
	ExamEventTick   ExamEventType = "tick"
	ExamEventTimeUp ExamEventType = "timeUp"
)

// ExamEvent carries the session view after a transition or tick.
type ExamEvent struct {
	Type   ExamEventType `json:"type"`
	View   ExamView      `json:"view"`
	Notice string        `json:"notice,omitempty"`
}
