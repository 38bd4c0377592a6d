package applications

import (
	"errors"
	"strings"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrAlreadyApplied = errors.New("already applied to this job")
)

// FieldError is a validation failure carrying the offending form field.
// It matches ErrInvalidInput under errors.Is.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + " is required"
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

func fieldError(field string) error {
	return &FieldError{Field: field}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
