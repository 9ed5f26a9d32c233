package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing entity or a dangling foreign-key target.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a scoped-uniqueness violation or a restricted delete.
// Dependents carries the blocking row count for restricted deletes, 0 otherwise.
type ConflictError struct {
	Message    string
	Dependents int
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict builds a uniqueness ConflictError.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// RestrictedDelete builds a ConflictError for a delete blocked by live dependents.
func RestrictedDelete(count int, format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...), Dependents: count}
}

// ValidationError reports structurally invalid input the store must refuse.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
