package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidQuestion = errors.New("invalid question")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// QuestionError reports a seed question that breaks the option invariant.
type QuestionError struct {
	Quiz   string
	Index  int
	Reason string
}

func (e *QuestionError) Error() string {
	return fmt.Sprintf("quiz %q question %d: %s", e.Quiz, e.Index+1, e.Reason)
}

func (e *QuestionError) Unwrap() error {
	return ErrInvalidQuestion
}
