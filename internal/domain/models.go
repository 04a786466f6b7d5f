package domain

import "time"

// Role decides which parts of the platform a user may reach.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Quiz is a single multiple-choice question authored by a teacher.
type Quiz struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// QuizInput is the writable part of a quiz, as submitted by the quiz form.
type QuizInput struct {
	Question      string   `json:"question" yaml:"question" validate:"required"`
	Options       []string `json:"options" yaml:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer" validate:"required"`
}

// QuizPatch is a partial update; nil fields are left unchanged.
type QuizPatch struct {
	Question      *string  `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correctAnswer,omitempty"`
}

// Input returns the writable fields of q.
func (q Quiz) Input() QuizInput {
	return QuizInput{
		Question:      q.Question,
		Options:       append([]string(nil), q.Options...),
		CorrectAnswer: q.CorrectAnswer,
	}
}

// Apply returns a copy of q with the patch merged in.
func (q Quiz) Apply(p QuizPatch) Quiz {
	out := q
	out.Options = append([]string(nil), q.Options...)
	if p.Question != nil {
		out.Question = *p.Question
	}
	if p.Options != nil {
		out.Options = append([]string(nil), p.Options...)
	}
	if p.CorrectAnswer != nil {
		out.CorrectAnswer = *p.CorrectAnswer
	}
	return out
}

// QuizAttempt is the scored record of one user's pass through the quiz set.
// There is at most one per user; ID always equals UserID.
type QuizAttempt struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	TotalMarks  int       `json:"totalMarks"`
	QuizDate    time.Time `json:"quizDate"`
	UserID      string    `json:"userId"`
}

// AttemptStatus is an attempt on the teacher's marks view.
type AttemptStatus struct {
	QuizAttempt
	InExam bool `json:"inExam"`
}

// Profile holds the details a user fills in after signing up.
type Profile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Role   Role   `json:"role"`
}

// ProfileInput is the profile completion form.
type ProfileInput struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age" validate:"gte=1,lte=150"`
	Role Role   `json:"role" validate:"required,oneof=student teacher"`
}

// Credential is what the identity provider stores per account.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Registration is the sign-up form.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,hasupper"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"token"`
	UserID      string    `json:"userId"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Principal is the authenticated caller behind a verified token.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// StudyMaterial is a resource published by a teacher.
type StudyMaterial struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	UserID      string `json:"userId"`
}

// MaterialInput is the study material form.
type MaterialInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
}

// SavedMaterial is a student's own copy of a study material.
type SavedMaterial struct {
	ID          string `json:"id"`
	MaterialID  string `json:"materialId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	UserID      string `json:"userId"`
}

// NavItem is one entry of the role-based navigation menu.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}
