package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrQuizNotFound indicates an empty or unknown quiz identifier.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrOptionNotFound indicates a selected option is not offered by the current question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrProfileNotFound is returned by profile stores for unknown users.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMaterialNotFound indicates an unknown study material or saved copy.
	ErrMaterialNotFound = errors.New("study material not found")
	// ErrCredentialNotFound is returned by credential stores for unknown emails.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrFetchFailure wraps repository read failures while starting an exam.
	ErrFetchFailure = errors.New("fetch quizzes failed")
	// ErrProfileMissing aborts a submission for a user without a profile.
	ErrProfileMissing = errors.New("user profile missing")
	// ErrWriteFailure wraps repository failures while recording an attempt.
	ErrWriteFailure = errors.New("record attempt failed")
	// ErrValidation is the root of every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPhase rejects an exam intent that the current phase does not accept.
	ErrInvalidPhase = errors.New("action not allowed in current exam phase")
	// ErrSessionBusy rejects intents while a repository call is in flight.
	ErrSessionBusy = errors.New("exam session busy")
	// ErrSessionClosed rejects intents on a torn down exam session.
	ErrSessionClosed = errors.New("exam session closed")

	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("permission denied")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
