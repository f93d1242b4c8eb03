package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an identifier does not resolve to a book,
// including identifiers that are not valid UUIDs.
var ErrNotFound = errors.New("book not found")

// FieldError describes a single rejected payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload fails field constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ServiceError wraps a store failure unrelated to the caller's input.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &ServiceError{Op: op, Err: err}
}
