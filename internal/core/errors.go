package core

// errors.go defines the error taxonomy for submissions and imports.
//
// Structural problems unwind the call as one of the typed errors below.
// Row-level import failures are never errors; they are collected into
// ImportResult.Errors so one bad row never discards the rest of a batch.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooManyImports is returned when all import slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

// ValidationError reports submission fields that are missing or malformed.
type ValidationError struct {
	Missing []string          // Required fields with no value
	Invalid map[string]string // Field name -> problem
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := sortedKeys(e.Invalid)
		problems := make([]string, 0, len(keys))
		for _, k := range keys {
			problems = append(problems, fmt.Sprintf("%s %s", k, e.Invalid[k]))
		}
		parts = append(parts, "invalid fields: "+strings.Join(problems, "; "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// HasProblems reports whether any field failed validation.
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// NotFoundError reports a lookup that resolved to no record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ConflictError reports a transition that is not allowed from the record's
// current state, or an update that lost an optimistic concurrency race.
type ConflictError struct {
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("submission conflict %s: %s", e.ID, e.Reason)
}

// FormatError reports structurally invalid import input.
// Nothing from the payload is imported when it is returned.
type FormatError struct {
	Format  Format
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s format: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid %s format: %s", e.Format, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ImportError wraps an unexpected failure during an import.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is or wraps a *ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsFormat reports whether err is or wraps a *FormatError.
func IsFormat(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}
